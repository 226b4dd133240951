// Package schedule implements the REST API handlers for release date
// computation and advisory parameter derivation.
package schedule

import (
	"errors"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/release-eng/advisory-sync/internal/engine"
	"github.com/release-eng/advisory-sync/internal/metadata"
)

// GetNextReleaseDate handles GET requests for a product line's next
// release date. An explicit ?date=YYYY-MM-DD is validated and echoed back
// unchanged.
func GetNextReleaseDate(eng *engine.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		group := c.Params("group")
		explicit := c.Query("date")

		date, err := eng.ComputeReleaseDate(c.Context(), group, explicit)
		if err != nil {
			status := fiber.StatusInternalServerError
			if errors.Is(err, engine.ErrNoReleaseHistory) {
				status = fiber.StatusUnprocessableEntity
			}
			return c.Status(status).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success":      true,
			"group":        group,
			"release_date": date.Format(engine.ReleaseDateFormat),
		})
	}
}

// PostAdvisoryParams handles POST requests deriving the creation
// parameters for a new advisory: release date on the group's cadence plus,
// when requested, the aggregated security impact.
func PostAdvisoryParams(eng *engine.Engine, groupDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req AdvisoryParamsRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}
		if req.Group == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "group is required",
			})
		}

		group, err := metadata.LoadGroup(filepath.Join(groupDir, req.Group, "group.yml"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		advisoryType := req.Type
		if advisoryType == "" {
			advisoryType = group.AdvisoryType
		}

		params, err := eng.AdvisoryParams(c.Context(), engine.AdvisoryParamsRequest{
			Synopsis:        req.Synopsis,
			Type:            advisoryType,
			ProductLine:     req.Group,
			ExplicitDate:    req.Date,
			TargetReleases:  group.TargetReleases,
			AggregateImpact: req.AggregateImpact,
		})
		if err != nil {
			status := fiber.StatusInternalServerError
			switch {
			case errors.Is(err, engine.ErrNoReleaseHistory),
				errors.Is(err, engine.ErrNoTrackersFound):
				status = fiber.StatusUnprocessableEntity
			}
			return c.Status(status).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"params":  params,
		})
	}
}
