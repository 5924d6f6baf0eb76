package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/promptforge/internal/prompts"
	"github.com/promptforge/pkg/models"
)

type textRequest struct {
	Text string `json:"text"`
}

// bindCompose decodes a compose request and applies sampling defaults.
func (s *Server) bindCompose(c echo.Context) (models.ComposeRequest, error) {
	var req models.ComposeRequest
	if err := c.Bind(&req); err != nil {
		return req, err
	}
	s.applyDefaults(&req)
	return req, nil
}

func (s *Server) applyDefaults(req *models.ComposeRequest) {
	req.ApplySamplingDefaults(s.deps.Defaults.NumberOfResponses, s.deps.Defaults.DistributionType)
}

// POST /api/v1/compose
func (s *Server) compose(c echo.Context) error {
	req, err := s.bindCompose(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if errs := models.CheckRequest(req); len(errs) > 0 {
		return fieldErrors(c, errs)
	}
	return c.JSON(http.StatusOK, req.Compose(s.deps.Composer))
}

// POST /api/v1/enhancements
func (s *Server) enhancements(c echo.Context) error {
	var req models.AdvancedEnhancements
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"enhancements": prompts.GenerateAllAdvancedEnhancements(req.ToCore()),
	})
}

// POST /api/v1/sampling
func (s *Server) sampling(c echo.Context) error {
	var req models.VSEnhancement
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	req.Enabled = true
	wrapped := models.ComposeRequest{VSEnhancement: &req}
	s.applyDefaults(&wrapped)

	vs := req.ToCore()
	if errs := prompts.ValidateSampling(vs); len(errs) > 0 {
		return fieldErrors(c, errs)
	}
	si := prompts.BuildSampling(vs)
	return c.JSON(http.StatusOK, map[string]string{
		"instruction": si.Instruction,
		"format":      si.Format,
		"block":       si.Block(),
	})
}

// POST /api/v1/validate
func (s *Server) validate(c echo.Context) error {
	req, err := s.bindCompose(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	base := req.BaseConfig.ToCore()
	vs := req.VSEnhancement.ToCore()
	generated := s.deps.Composer.Compose(base, vs)
	return c.JSON(http.StatusOK, map[string]any{
		"errors":          prompts.ValidatePromptConfig(base),
		"sampling_errors": prompts.ValidateSampling(vs),
		"quality":         prompts.ValidatePromptQuality(generated.FinalPrompt),
	})
}

// POST /api/v1/quality
func (s *Server) quality(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, prompts.ValidatePromptQuality(req.Text))
}

// POST /api/v1/variables
func (s *Server) variables(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"variables": prompts.ExtractTemplateVariables(req.Text),
	})
}

// POST /api/v1/enhance
func (s *Server) enhance(c echo.Context) error {
	if s.deps.Enhancer == nil {
		return errorJSON(c, http.StatusServiceUnavailable, "no inference provider is configured")
	}
	req, err := s.bindCompose(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if errs := models.CheckRequest(req); len(errs) > 0 {
		return fieldErrors(c, errs)
	}

	res, err := s.deps.Enhancer.Enhance(c.Request().Context(), req)
	if err != nil {
		log.Error().Err(err).Int("attempts", res.Attempts).Msg("enhance request failed")
		return errorJSON(c, http.StatusBadGateway, "inference failed: "+err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
