package server

import (
	stderrors "errors"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wippyai/wcp-tools/errors"
)

type changeJSON struct {
	Time  uint64 `json:"time"`
	Value string `json:"value"`
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.KindOf(err) {
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindInvalidInput, errors.KindInvalidFormat, errors.KindMissingSection,
		errors.KindInvalidData, errors.KindUnsupported:
		return http.StatusBadRequest
	case errors.KindClosed:
		return http.StatusServiceUnavailable
	case errors.KindIO:
		// Parse-time read faults come from the request body: invalid UTF-8
		// or a broken upload.
		if p := errors.PhaseOf(err); p == errors.PhaseParse || p == errors.PhaseDecode {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= 500 {
		Logger().Error("server: request failed", zap.String("path", routePath(c)), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, detail string) {
	fail(c, errors.InvalidInput(errors.PhaseServer, detail))
}

func (s *Server) listFiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"files": s.store.List()})
}

func (s *Server) openFile(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	info, err := s.store.Open(c.Param("name"), body)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

func (s *Server) fileInfo(c *gin.Context) {
	info, err := s.store.Info(c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) closeFile(c *gin.Context) {
	if err := s.store.Close(c.Param("name")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) hierarchy(c *gin.Context) {
	tree, err := s.store.Hierarchy(c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (s *Server) changes(c *gin.Context) {
	name := c.Param("name")
	ref, err := strconv.Atoi(c.Param("ref"))
	if err != nil {
		badRequest(c, "invalid signal reference "+strconv.Quote(c.Param("ref")))
		return
	}

	info, err := s.store.Info(name)
	if err != nil {
		fail(c, err)
		return
	}

	start, ok := queryUint(c, "start", 0)
	if !ok {
		return
	}
	end, ok := queryUint(c, "end", info.EndTime)
	if !ok {
		return
	}

	changes, err := s.store.Changes(name, ref, start, end)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]changeJSON, len(changes))
	for i, ch := range changes {
		out[i] = changeJSON{Time: ch.Time, Value: ch.Value}
	}
	c.JSON(http.StatusOK, gin.H{"changes": out})
}

func queryUint(c *gin.Context, key string, def uint64) (uint64, bool) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+key+" "+strconv.Quote(raw))
		return 0, false
	}
	return v, true
}

func (s *Server) exportVCD(c *gin.Context) {
	name := c.Param("name")
	out, err := s.store.Export(name)
	if err != nil {
		fail(c, err)
		return
	}
	file := strings.TrimSuffix(name, path.Ext(name)) + ".vcd"
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(file))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(out))
}
