package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/muhammadolammi/hireflow/internal/apperr"
	"github.com/muhammadolammi/hireflow/internal/suggest"
)

type jobTitlesRequest struct {
	Industry    string `json:"industry" validate:"max=200"`
	Description string `json:"description" validate:"max=20000"`
	Static      bool   `json:"static"`
}

type mustHavesRequest struct {
	JobTitle  string `json:"jobTitle" validate:"required,max=200"`
	Industry  string `json:"industry" validate:"max=200"`
	Seniority string `json:"seniority" validate:"max=100"`
	Static    bool   `json:"static"`
}

type businessRequest struct {
	Name     string `json:"name" validate:"max=200"`
	Industry string `json:"industry" validate:"max=200"`
	Location string `json:"location" validate:"max=200"`
	About    string `json:"about" validate:"max=5000"`
}

type jobDescriptionRequest struct {
	JobTitle   string           `json:"jobTitle" validate:"required,max=200"`
	MustHaves  []string         `json:"mustHaves" validate:"max=50,dive,max=500"`
	BusinessID string           `json:"businessId" validate:"max=100"`
	Business   *businessRequest `json:"business"`
	Extras     []string         `json:"extras" validate:"max=50,dive,max=500"`
	Static     bool             `json:"static"`
}

type jobContextRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	MustHaves   []string `json:"mustHaves" validate:"max=50,dive,max=500"`
	Description string   `json:"description" validate:"max=20000"`
}

type scoreResumeRequest struct {
	ApplicationID string             `json:"applicationId" validate:"max=100"`
	Job           *jobContextRequest `json:"job" validate:"required_without=ApplicationID"`
	ResumeText    string             `json:"resumeText"`
	ResumeFileID  string             `json:"resumeFileId" validate:"max=100"`
	Static        bool               `json:"static"`
}

// bind decodes the JSON body into dst and validates it.
func (h *handler) bind(c *fiber.Ctx, dst any) error {
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), dst); err != nil {
			return apperr.Validation("request body is not valid JSON", map[string]any{"error": err.Error()})
		}
	}

	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return apperr.Validation(err.Error(), nil)
		}
		details := make(map[string]any, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fieldName(fe)] = fe.Tag()
		}
		return apperr.Validation("request validation failed", details)
	}
	return nil
}

// fieldName turns "jobDescriptionRequest.MustHaves[0]" into "MustHaves[0]".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// static reports whether the body flag or ?static=true asks for the fallback.
func static(c *fiber.Ctx, body bool) bool {
	return body || c.QueryBool("static", false)
}

func (r jobTitlesRequest) toService(forceStatic bool) suggest.JobTitlesRequest {
	return suggest.JobTitlesRequest{Industry: r.Industry, Description: r.Description, Static: forceStatic}
}

func (r mustHavesRequest) toService(forceStatic bool) suggest.MustHavesRequest {
	return suggest.MustHavesRequest{JobTitle: r.JobTitle, Industry: r.Industry, Seniority: r.Seniority, Static: forceStatic}
}

func (r jobDescriptionRequest) toService(forceStatic bool) suggest.JobDescriptionRequest {
	out := suggest.JobDescriptionRequest{
		JobTitle:   r.JobTitle,
		MustHaves:  r.MustHaves,
		BusinessID: r.BusinessID,
		Extras:     r.Extras,
		Static:     forceStatic,
	}
	if r.Business != nil {
		out.Business = suggest.Business{
			Name:     r.Business.Name,
			Industry: r.Business.Industry,
			Location: r.Business.Location,
			About:    r.Business.About,
		}
	}
	return out
}

func (r scoreResumeRequest) toService(forceStatic bool) suggest.ScoreRequest {
	out := suggest.ScoreRequest{
		ApplicationID: r.ApplicationID,
		ResumeText:    r.ResumeText,
		ResumeFileID:  r.ResumeFileID,
		Static:        forceStatic,
	}
	if r.Job != nil {
		out.Job = &suggest.JobContext{
			Title:       r.Job.Title,
			MustHaves:   r.Job.MustHaves,
			Description: r.Job.Description,
		}
	}
	return out
}
