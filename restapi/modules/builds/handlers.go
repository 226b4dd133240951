package builds

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
// attaching) build candidates
func PostResolve(eng *engine.Engine, groupDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ResolveRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		buildReq, err := buildRequest(req, groupDir)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		result, err := eng.ResolveBuilds(c.Context(), *buildReq)
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

// buildRequest translates the API request into an engine request, loading
// group metadata for the automatic modes.
func buildRequest(req ResolveRequest, groupDir string) (*engine.BuildRequest, error) {
	out := &engine.BuildRequest{
		Mode:            engine.ResolveMode(req.Mode),
		AdvisoryID:      req.AdvisoryID,
		DefaultFileType: req.FileType,
	}

	switch out.Mode {
	case engine.ModeManual:
		if len(req.NVRs) == 0 {
			return nil, errors.New("manual mode requires nvrs")
		}
		for _, raw := range req.NVRs {
			id, err := model.ParseBuildIdentifier(raw)
			if err != nil {
				return nil, err
			}
			out.Identifiers = append(out.Identifiers, id)
		}
		return out, nil

	case engine.ModeTagged, engine.ModeImages:
		if req.Group == "" {
			return nil, errors.New("automatic modes require a group")
		}
		group, err := metadata.LoadGroup(filepath.Join(groupDir, req.Group, "group.yml"))
		if err != nil {
			return nil, err
		}
		out.CandidateTag = group.CandidateTag
		out.ShippedTags = group.ShippedTags
		out.ProductVersion = group.ProductVersion
		out.AdvisoryType = group.AdvisoryType
		out.Policy = group.Policy()
		out.Policy.SameTypeOnly = req.SameTypeOnly
		out.ExcludeImages = group.NonReleaseImages

		if out.Mode == engine.ModeImages {
			images, err := group.LoadImages()
			if err != nil {
				return nil, err
			}
			for _, img := range images {
				tag := img.Tag
				if tag == "" {
					tag = group.CandidateTag
				}
				out.Members = append(out.Members, engine.ImageMember{Name: img.Name, Tag: tag})
			}
		}
		return out, nil
	}

	return nil, errors.New("mode must be manual, tagged, or images")
}

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, clients.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, clients.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
