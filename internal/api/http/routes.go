package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/radar-overlay/internal/radar"
	"github.com/i474232898/radar-overlay/internal/store"
	"github.com/i474232898/radar-overlay/internal/stylemap"
)

var validate = validator.New()

// Defaults are the overlay settings used when a request does not override them.
type Defaults struct {
	Key         string
	BeforeLayer string
	Window      time.Duration
	BaseLayers  []string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *radar.Service, history radar.History, defaults Defaults) {
	v1 := app.Group("/api/v1")

	v1.Get("/radar/current", func(c *fiber.Ctx) error {
		var q overlayQuery
		if err := q.bind(c, defaults); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		sel, err := service.Current(c.UserContext(), q.Window)
		if err != nil {
			return overlayError(err)
		}
		return c.JSON(sel)
	})

	v1.Get("/radar/style", func(c *fiber.Ctx) error {
		var q overlayQuery
		if err := q.bind(c, defaults); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		m := stylemap.New(defaults.BaseLayers...)
		toggle, err := service.SetOverlay(c.UserContext(), m,
			radar.WithKey(q.Key),
			radar.WithBeforeLayer(q.Before),
			radar.WithWindow(q.Window),
		)
		if err != nil {
			return overlayError(err)
		}

		if q.Hidden {
			if err := toggle.Toggle(); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to hide radar layer")
			}
		}

		return c.JSON(m.Style())
	})

	v1.Get("/radar/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		probes, err := history.Range(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no radar probes for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch radar history")
		}

		return c.JSON(fiber.Map{
			"from":   req.From,
			"to":     req.To,
			"probes": probes,
		})
	})

	v1.Get("/radar/history/latest", func(c *fiber.Ctx) error {
		p, err := history.Latest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no radar probes recorded yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch radar history")
		}
		return c.JSON(p)
	})
}

// overlayError maps resolution errors onto HTTP statuses. A stale feed is a
// 404 the client may retry; feed failures are upstream errors.
func overlayError(err error) error {
	switch {
	case errors.Is(err, radar.ErrNoEligibleSnapshot):
		return fiber.NewError(fiber.StatusNotFound, "no radar snapshot in the current window; retry later")
	case errors.Is(err, radar.ErrFeedMalformed):
		return fiber.NewError(fiber.StatusBadGateway, "radar feed returned malformed data")
	case errors.Is(err, radar.ErrFeedUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, "radar feed unavailable")
	case errors.Is(err, stylemap.ErrUnknownLayer),
		errors.Is(err, stylemap.ErrDuplicateLayer),
		errors.Is(err, stylemap.ErrDuplicateSource):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build radar overlay")
	}
}

// overlayQuery holds query parameters shared by the overlay endpoints.
type overlayQuery struct {
	Key    string        `validate:"required,max=64,excludesall=/"`
	Before string        `validate:"omitempty,max=64"`
	Window time.Duration `validate:"gte=1m,lte=6h"`
	Hidden bool
}

func (q *overlayQuery) bind(c *fiber.Ctx, defaults Defaults) error {
	q.Key = c.Query("key", defaults.Key)
	q.Before = c.Query("before", defaults.BeforeLayer)
	q.Window = defaults.Window
	if q.Window <= 0 {
		q.Window = radar.DefaultWindow
	}

	if w := c.Query("window"); w != "" {
		d, err := time.ParseDuration(w)
		if err != nil {
			return errors.New("invalid window; use a duration such as 10m")
		}
		q.Window = d
	}

	if h := c.Query("hidden"); h != "" {
		hidden, err := strconv.ParseBool(h)
		if err != nil {
			return errors.New("invalid hidden; use true or false")
		}
		q.Hidden = hidden
	}

	return validate.Struct(q)
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
