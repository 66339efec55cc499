// Package server exposes the replicated state of every known mech over HTTP,
// for debugging and for remote viewers.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/adammck/mech/replica"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "server",
})

// MIME type of the raw snapshot endpoint.
const msgpackType = "application/msgpack"

// ErrUnknownMech is returned by a DamageFunc for mechs which this process
// doesn't own.
var ErrUnknownMech = errors.New("unknown mech")

// DamageFunc applies damage to a mech owned by this process.
type DamageFunc func(id uuid.UUID, amount float64) error

type DamageRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type Server struct {
	Registry *replica.Registry
	Damage   DamageFunc
}

// New returns the gin engine serving the registry. If damage is nil, the
// damage endpoint is not registered.
func New(reg *replica.Registry, damage DamageFunc) *gin.Engine {
	s := &Server{Registry: reg, Damage: damage}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/mechs", s.ListMechs)
	r.GET("/mechs/:id", s.GetMech)
	r.GET("/mechs/:id/snapshot", s.GetSnapshot)

	if damage != nil {
		r.POST("/mechs/:id/damage", s.PostDamage)
	}

	return r
}

func (s *Server) ListMechs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mechs": s.Registry.Snapshots()})
}

// replica returns the replica named in the URL, or writes an error and returns
// false.
func (s *Server) replica(c *gin.Context) (*replica.Replica, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mech id"})
		return nil, false
	}

	r, ok := s.Registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Mech not found"})
		return nil, false
	}

	return r, true
}

func (s *Server) GetMech(c *gin.Context) {
	r, ok := s.replica(c)
	if !ok {
		return
	}

	snap, ok := r.Snapshot()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "No snapshot yet"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

func (s *Server) GetSnapshot(c *gin.Context) {
	r, ok := s.replica(c)
	if !ok {
		return
	}

	c.Data(http.StatusOK, msgpackType, r.Raw())
}

func (s *Server) PostDamage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mech id"})
		return
	}

	var req DamageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.Damage(id, req.Amount); err != nil {
		if errors.Is(err, ErrUnknownMech) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Mech not found"})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Damage queued"})
}

// requestLogger logs each request through logrus, rather than gin's own
// logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Debug("request")
	}
}
