package http

import (
	"bufio"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/reader"
)

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// queryInt reads an integer query parameter, falling back to def when it
// is absent
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Newf(reader.ErrInvalidPage, "%s must be an integer", name).AddContext(name, raw)
	}
	return n, nil
}

// handleListFiles handles GET /api/files
func (s *Server) handleListFiles(c *fiber.Ctx) error {
	files, err := s.viewer.ListFiles(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(files)
}

// handleMetadata handles GET /api/files/:id/metadata
func (s *Server) handleMetadata(c *fiber.Ctx) error {
	md, err := s.viewer.Metadata(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(md)
}

// handleData handles GET /api/files/:id/data?page=&pageSize=
func (s *Server) handleData(c *fiber.Ctx) error {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return err
	}
	pageSize, err := queryInt(c, "pageSize", s.viewer.DefaultPageSize())
	if err != nil {
		return err
	}

	id := c.Params("id")
	window, err := s.viewer.Page(c.UserContext(), id, page, pageSize)
	if err != nil {
		return err
	}

	s.logger.Debug().
		Str("request_id", requestID(c)).
		Str("file_id", id).
		Int("page", page).
		Int("page_size", pageSize).
		Int("rows", len(window.Rows)).
		Msg("Served page")
	return c.JSON(window)
}

// handleDownload handles GET /api/files/:id/download?format=csv|excel.
// Lookup, staging and schema errors, and for spreadsheets any scan error,
// happen before the response starts and produce a JSON error. CSV bodies
// stream; a CSV failure after the headers are out drops the connection so
// the client never sees a complete-looking file.
func (s *Server) handleDownload(c *fiber.Ctx) error {
	id := c.Params("id")
	format := c.Query("format", "csv")

	job, err := s.viewer.PrepareExport(c.UserContext(), id, format)
	if err != nil {
		return err
	}
	if err := job.Build(c.UserContext()); err != nil {
		job.Close()
		return err
	}

	c.Attachment(job.FileName)
	c.Set(fiber.HeaderContentType, job.ContentType())

	reqID := requestID(c)
	conn := c.Context().Conn()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer job.Close()

		res, err := job.Run(s.ctx, w)
		if err == nil {
			err = w.Flush()
		}
		if err != nil {
			// the status line is already out; without the final chunk the
			// client reads a truncated body
			conn.Close()
			s.logger.Error().Err(err).
				Str("request_id", reqID).
				Str("file_id", id).
				Str("format", string(job.Format)).
				Msg("Download aborted")
			return
		}
		s.logger.Info().
			Str("request_id", reqID).
			Str("file_id", id).
			Str("format", string(job.Format)).
			Int64("rows", res.Rows).
			Msg("Download completed")
	})
	return nil
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"server":    "pqview-http",
	})
}

// handleInfo handles server information requests
func (s *Server) handleInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"server":   "pqview-http",
		"version":  "0.1.0",
		"uptime":   time.Since(s.startTime).String(),
		"pageSize": s.viewer.DefaultPageSize(),
		"endpoints": []string{
			"GET /api/files - List parquet files",
			"GET /api/files/:id/metadata - File schema and statistics",
			"GET /api/files/:id/data?page=0&pageSize=50 - One page of rows",
			"GET /api/files/:id/download?format=csv|excel - Export the whole file",
			"GET /info - Server information",
			"GET /health - Health check",
		},
	})
}
