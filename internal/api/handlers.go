package api

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/muhammadolammi/hireflow/internal/upload"
)

func (h *handler) health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// uploadResume takes the raw document as the body with its mime type as the
// Content-Type.
func (h *handler) uploadResume(c *fiber.Ctx) error {
	f, err := h.uploads.Upload(c.UserContext(), upload.Request{
		// fasthttp reuses the body buffer once the handler returns.
		Data:         bytes.Clone(c.Body()),
		MimeType:     c.Get(fiber.HeaderContentType),
		OriginalName: c.Query("originalName"),
		ApplicantID:  c.Query("applicantId"),
		JobID:        c.Query("jobId"),
	})
	if err != nil {
		return err
	}

	if id, ok := identity(c); ok {
		h.logger.Debug("resume upload accepted", zap.String("file_id", f.ID), zap.String("uploaded_by", id.Email))
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

func (h *handler) getResume(c *fiber.Ctx) error {
	f, err := h.uploads.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(f)
}

func (h *handler) jobTitles(c *fiber.Ctx) error {
	var req jobTitlesRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	res := h.suggestions.SuggestJobTitles(c.UserContext(), req.toService(static(c, req.Static)))
	return c.JSON(res)
}

func (h *handler) mustHaves(c *fiber.Ctx) error {
	var req mustHavesRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	res, err := h.suggestions.SuggestMustHaves(c.UserContext(), req.toService(static(c, req.Static)))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *handler) jobDescription(c *fiber.Ctx) error {
	var req jobDescriptionRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	res, err := h.suggestions.GenerateJobDescription(c.UserContext(), req.toService(static(c, req.Static)))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// scoreResume answers 200 for ready, pending and failed outcomes alike.
func (h *handler) scoreResume(c *fiber.Ctx) error {
	var req scoreResumeRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	res, err := h.suggestions.ScoreResume(c.UserContext(), req.toService(static(c, req.Static)))
	if err != nil {
		return err
	}
	return c.JSON(res)
}
