package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/promptforge/internal/api/auth"
	"github.com/promptforge/internal/importer"
	"github.com/promptforge/internal/jobqueue"
	"github.com/promptforge/internal/library"
	"github.com/promptforge/pkg/models"
)

const maxImportSize = 5 << 20

// libraryError maps service errors to responses.
func libraryError(c echo.Context, err error) error {
	var verr *library.ValidationError
	switch {
	case errors.As(err, &verr):
		return fieldErrors(c, verr.Fields)
	case errors.Is(err, library.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "prompt not found")
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("library request failed")
	return errorJSON(c, http.StatusInternalServerError, err.Error())
}

func (s *Server) requireLibrary(c echo.Context) (*library.Service, string, bool) {
	if s.deps.Library == nil {
		return nil, "", false
	}
	return s.deps.Library, auth.OwnerID(c), true
}

func noLibrary(c echo.Context) error {
	return errorJSON(c, http.StatusServiceUnavailable, "prompt library requires a database")
}

// GET /api/v1/prompts
func (s *Server) listPrompts(c echo.Context) error {
	lib, owner, ok := s.requireLibrary(c)
	if !ok {
		return noLibrary(c)
	}
	f := library.Filter{Query: c.QueryParam("q"), Tag: c.QueryParam("tag")}
	if v := c.QueryParam("favorite"); v != "" {
		fav, err := strconv.ParseBool(v)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "favorite must be true or false")
		}
		f.Favorite = &fav
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return errorJSON(c, http.StatusBadRequest, "limit must be a non-negative integer")
		}
		f.Limit = n
	}

	items, err := lib.Store().List(c.Request().Context(), owner, f)
	if err != nil {
		return libraryError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"prompts": items})
}

func (s *Server) bindSave(c echo.Context) (models.SavePromptRequest, error) {
	var req models.SavePromptRequest
	if err := c.Bind(&req); err != nil {
		return req, err
	}
	s.applyDefaults(&req.ComposeRequest)
	return req, nil
}

// POST /api/v1/prompts
func (s *Server) savePrompt(c echo.Context) error {
	lib, owner, ok := s.requireLibrary(c)
	if !ok {
		return noLibrary(c)
	}
	req, err := s.bindSave(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	p, err := lib.Save(c.Request().Context(), owner, req)
	if err != nil {
		return libraryError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// GET /api/v1/prompts/:id
func (s *Server) getPrompt(c echo.Context) error {
	lib, owner, ok := s.requireLibrary(c)
	if !ok {
		return noLibrary(c)
	}
	p, err := lib.Store().Get(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return libraryError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// PUT /api/v1/prompts/:id
func (s *Server) updatePrompt(c echo.Context) error {
	lib, owner, ok := s.requireLibrary(c)
	if !ok {
		return noLibrary(c)
	}
	req, err := s.bindSave(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	p, err := lib.Update(c.Request().Context(), owner, c.Param("id"), req)
	if err != nil {
		return libraryError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// DELETE /api/v1/prompts/:id
func (s *Server) deletePrompt(c echo.Context) error {
	lib, owner, ok := s.requireLibrary(c)
	if !ok {
		return noLibrary(c)
	}
	if err := lib.Store().Delete(c.Request().Context(), owner, c.Param("id")); err != nil {
		return libraryError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

// POST /api/v1/prompts/import
func (s *Server) importPrompts(c echo.Context) error {
	lib, owner, ok := s.requireLibrary(c)
	if !ok {
		return noLibrary(c)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "file is required")
	}

	var format importer.Format
	if name := c.FormValue("format"); name != "" {
		format, err = importer.ParseFormat(name)
	} else {
		format, err = importer.DetectFormat(fh.Filename)
	}
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "could not read upload")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImportSize+1))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "could not read upload")
	}
	if len(data) > maxImportSize {
		return errorJSON(c, http.StatusRequestEntityTooLarge, "import file is larger than 5 MB")
	}

	parsed, err := importer.Parse(format, data)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	res, err := lib.Import(c.Request().Context(), owner, parsed)
	if err != nil {
		return libraryError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// POST /api/v1/prompts/:id/runs
func (s *Server) createRun(c echo.Context) error {
	lib, owner, ok := s.requireLibrary(c)
	if !ok {
		return noLibrary(c)
	}
	if s.deps.Queue == nil {
		return errorJSON(c, http.StatusServiceUnavailable, "run queue is not enabled")
	}
	ctx := c.Request().Context()

	p, err := lib.Store().Get(ctx, owner, c.Param("id"))
	if err != nil {
		return libraryError(c, err)
	}
	run := &models.PromptRun{PromptID: p.ID, Model: s.deps.RunModel, Status: models.RunQueued}
	if err := lib.Store().CreateRun(ctx, run); err != nil {
		return libraryError(c, err)
	}

	if err := s.deps.Queue.EnqueueRun(ctx, jobqueue.RunPromptArgs{RunID: run.ID, PromptID: p.ID, OwnerID: owner}); err != nil {
		now := time.Now()
		run.Status = models.RunFailed
		run.Error = err.Error()
		run.CompletedAt = &now
		if uerr := lib.Store().UpdateRun(ctx, run); uerr != nil {
			log.Error().Err(uerr).Str("run_id", run.ID).Msg("failed to record enqueue failure")
		}
		log.Error().Err(err).Str("run_id", run.ID).Msg("failed to enqueue prompt run")
		return errorJSON(c, http.StatusInternalServerError, "failed to queue run")
	}
	return c.JSON(http.StatusAccepted, run)
}

// GET /api/v1/prompts/:id/runs
func (s *Server) listRuns(c echo.Context) error {
	lib, owner, ok := s.requireLibrary(c)
	if !ok {
		return noLibrary(c)
	}
	ctx := c.Request().Context()
	p, err := lib.Store().Get(ctx, owner, c.Param("id"))
	if err != nil {
		return libraryError(c, err)
	}
	runs, err := lib.Store().ListRuns(ctx, p.ID)
	if err != nil {
		return libraryError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"runs": runs})
}
