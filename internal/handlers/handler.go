package handlers

import (
	"net/http"

	"go-pos-backoffice/internal/middleware"
	"go-pos-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler bundles the HTTP surface around an injected store. No package-level
// state; tests build their own Handler against an in-memory database.
type Handler struct {
	Store *store.Store
}

func New(s *store.Store) *Handler {
	return &Handler{Store: s}
}

// ownedBy reports whether a record belongs to the authenticated user. A
// foreign record answers 404, the same as a missing one, so probing ids
// reveals nothing. Stored owner ids may still carry a legacy encoding, so
// both sides are canonicalised before comparing.
func ownedBy(c *gin.Context, recordOwner string) bool {
	if store.NormalizeID(recordOwner) == store.NormalizeID(middleware.OwnerID(c)) {
		return true
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	return false
}

// fail translates store errors into HTTP statuses. Validation and duplicate
// problems are the caller's fault; missing records are 404; everything else
// is a server error.
func fail(c *gin.Context, err error) {
	switch {
	case store.IsValidation(err), store.IsDuplicate(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case store.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
