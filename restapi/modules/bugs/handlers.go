package bugs

import (
	"errors"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/release-eng/advisory-sync/internal/clients"
	"github.com/release-eng/advisory-sync/internal/engine"
	"github.com/release-eng/advisory-sync/internal/metadata"
	"github.com/release-eng/advisory-sync/model"
)

// PostResolve handles POST requests for resolving (and optionally
// attaching) bug candidates
func PostResolve(eng *engine.Engine, groupDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ResolveRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		bugReq, err := bugRequest(req, groupDir)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		result, err := eng.ResolveBugs(c.Context(), *bugReq)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"result":  result,
		})
	}
}

// PostRepair handles POST requests for moving bugs between states
func PostRepair(eng *engine.Engine, groupDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RepairRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		to, err := model.ParseBugStatus(req.To)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		from, err := parseStatuses(req.From)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		repairReq := engine.RepairRequest{
			IDs:     req.IDs,
			From:    from,
			To:      to,
			Comment: req.Comment,
			Private: req.Private,
		}
		if len(req.IDs) == 0 {
			if req.Group == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false,
					"message": "either ids or group is required",
				})
			}
			group, err := metadata.LoadGroup(filepath.Join(groupDir, req.Group, "group.yml"))
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false,
					"message": err.Error(),
				})
			}
			repairReq.TargetReleases = group.TargetReleases
		}

		result, err := eng.RepairBugs(c.Context(), repairReq)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"result":  result,
		})
	}
}

// bugRequest translates the API request into an engine request, loading
// group metadata for the automatic modes.
func bugRequest(req ResolveRequest, groupDir string) (*engine.BugRequest, error) {
	statuses, err := parseStatuses(req.Statuses)
	if err != nil {
		return nil, err
	}

	out := &engine.BugRequest{
		Mode:            engine.ResolveMode(req.Mode),
		IDs:             req.IDs,
		Statuses:        statuses,
		AdvisoryID:      req.AdvisoryID,
		Flags:           req.Flags,
		AggregateImpact: req.AggregateImpact,
	}

	switch out.Mode {
	case engine.ModeManual:
		if len(req.IDs) == 0 {
			return nil, errors.New("manual mode requires ids")
		}
		return out, nil

	case engine.ModeSweep, engine.ModeTrackers:
		if req.Group == "" {
			return nil, errors.New("automatic modes require a group")
		}
		group, err := metadata.LoadGroup(filepath.Join(groupDir, req.Group, "group.yml"))
		if err != nil {
			return nil, err
		}
		out.TargetReleases = group.TargetReleases
		out.AdvisoryType = group.AdvisoryType
		out.Policy.SameTypeOnly = req.SameTypeOnly
		return out, nil
	}

	return nil, errors.New("mode must be manual, sweep, or trackers")
}

func parseStatuses(raw []string) ([]model.BugStatus, error) {
	statuses := make([]model.BugStatus, 0, len(raw))
	for _, s := range raw {
		status, err := model.ParseBugStatus(s)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, clients.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, clients.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, engine.ErrNoTrackersFound):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
