package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/gin-gonic/gin"
)

// list handles GET /<path>.
func (s *Server) list(spec *entitySpec) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := parseListQuery(c.Request.URL.Query())
		if err != nil {
			s.fail(c, spec.module, validationError(err.Error(), gin.H{"code": "INVALID_PAGINATION"}))
			return
		}

		rows, total := s.collections[spec.path].list(q)
		meta := gin.H{
			"total":      total,
			"page":       q.page,
			"limit":      q.limit,
			"totalPages": totalPages(total, q.limit),
		}

		var data gin.H
		if spec.rowsKey != "" {
			data = gin.H{spec.rowsKey: rows, "pagination": meta}
		} else {
			data = meta
			data["data"] = rows
		}
		s.ok(c, http.StatusOK, spec.module, spec.plural+" retrieved successfully", data)
	}
}

// get handles GET /<path>/:id.
func (s *Server) get(spec *entitySpec) gin.HandlerFunc {
	return func(c *gin.Context) {
		includeDeleted := c.Query("includeDeleted") == "true"
		rec, err := s.collections[spec.path].get(c.Param("id"), includeDeleted)
		if err != nil {
			s.fail(c, spec.module, s.storeError(spec, err))
			return
		}
		s.ok(c, http.StatusOK, spec.module, spec.label+" retrieved successfully", rec)
	}
}

// create handles POST /<path>.
func (s *Server) create(spec *entitySpec) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, apiErr := bindRecord(c)
		if apiErr != nil {
			s.fail(c, spec.module, apiErr)
			return
		}
		delete(body, "id")
		delete(body, "password")

		if details := missingFields(body, spec.required); len(details) > 0 {
			s.fail(c, spec.module, validationError("Validation failed", details))
			return
		}
		for k, v := range spec.defaults {
			if _, ok := body[k]; !ok {
				body[k] = v
			}
		}

		s.mutate.Lock()
		defer s.mutate.Unlock()

		if apiErr := s.checkUnique(spec, body, ""); apiErr != nil {
			s.fail(c, spec.module, apiErr)
			return
		}
		if spec.beforeCreate != nil {
			if apiErr := spec.beforeCreate(s, body); apiErr != nil {
				s.fail(c, spec.module, apiErr)
				return
			}
		}

		rec := s.collections[spec.path].insert(body)
		if spec.afterCreate != nil {
			spec.afterCreate(s, rec)
		}
		s.recordAudit(c, models.AuditCreate, string(spec.module), rec["id"].(string), rec)
		s.ok(c, http.StatusCreated, spec.module, spec.label+" created successfully", rec)
	}
}

// update handles PATCH /<path>/:id.
func (s *Server) update(spec *entitySpec) gin.HandlerFunc {
	return func(c *gin.Context) {
		patch, apiErr := bindRecord(c)
		if apiErr != nil {
			s.fail(c, spec.module, apiErr)
			return
		}
		delete(patch, "password")
		if len(patch) == 0 {
			s.fail(c, spec.module, validationError("No fields to update", nil))
			return
		}
		if details := emptyFields(patch, spec.required); len(details) > 0 {
			s.fail(c, spec.module, validationError("Validation failed", details))
			return
		}

		s.mutate.Lock()
		defer s.mutate.Unlock()

		id := c.Param("id")
		if apiErr := s.checkUnique(spec, patch, id); apiErr != nil {
			s.fail(c, spec.module, apiErr)
			return
		}
		rec, err := s.collections[spec.path].update(id, patch)
		if err != nil {
			s.fail(c, spec.module, s.storeError(spec, err))
			return
		}
		s.recordAudit(c, models.AuditUpdate, string(spec.module), id, patch)
		s.ok(c, http.StatusOK, spec.module, spec.label+" updated successfully", rec)
	}
}

// softDelete handles DELETE /<path>/:id.
func (s *Server) softDelete(spec *entitySpec) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := s.collections[spec.path].softDelete(id); err != nil {
			s.fail(c, spec.module, s.storeError(spec, err))
			return
		}
		s.recordAudit(c, models.AuditDelete, string(spec.module), id, nil)
		msg := spec.label + " deleted successfully"
		s.ok(c, http.StatusOK, spec.module, msg, envelope.Message{Message: msg})
	}
}

// forceDelete handles DELETE /<path>/:id/force.
func (s *Server) forceDelete(spec *entitySpec) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := s.collections[spec.path].forceDelete(id); err != nil {
			s.fail(c, spec.module, s.storeError(spec, err))
			return
		}
		s.recordAudit(c, models.AuditDelete, string(spec.module), id, Record{"permanent": true})
		msg := spec.label + " permanently deleted"
		s.ok(c, http.StatusOK, spec.module, msg, envelope.Message{Message: msg})
	}
}

// action handles POST /<path>/:id/:action, including restore.
func (s *Server) action(spec *entitySpec) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		name := c.Param("action")

		if name == "restore" {
			rec, err := s.collections[spec.path].restore(id)
			if err != nil {
				s.fail(c, spec.module, s.storeError(spec, err))
				return
			}
			s.recordAudit(c, models.AuditRestore, string(spec.module), id, nil)
			s.ok(c, http.StatusOK, spec.module, spec.label+" restored successfully", rec)
			return
		}

		fn, ok := spec.actions[name]
		if !ok {
			s.fail(c, spec.module, notFound(fmt.Sprintf("Unknown action %q", name)))
			return
		}

		body, apiErr := bindRecord(c)
		if apiErr != nil {
			s.fail(c, spec.module, apiErr)
			return
		}

		s.mutate.Lock()
		defer s.mutate.Unlock()

		rec, err := s.collections[spec.path].get(id, false)
		if err != nil {
			s.fail(c, spec.module, s.storeError(spec, err))
			return
		}
		patch, msg, apiErr := fn(s, rec, body)
		if apiErr != nil {
			s.fail(c, spec.module, apiErr)
			return
		}
		rec, err = s.collections[spec.path].update(id, patch)
		if err != nil {
			s.fail(c, spec.module, s.storeError(spec, err))
			return
		}
		s.recordAudit(c, models.AuditUpdate, string(spec.module), id, Record{"action": name})
		s.ok(c, http.StatusOK, spec.module, msg, rec)
	}
}

// rolePermissions handles GET /roles/:id/permissions.
func (s *Server) rolePermissions(c *gin.Context) {
	spec := s.specs["roles"]
	rec, err := s.collections["roles"].get(c.Param("id"), false)
	if err != nil {
		s.fail(c, spec.module, s.storeError(spec, err))
		return
	}
	perms := []models.Permission{}
	if err := convert(rec["permissions"], &perms); err != nil {
		s.fail(c, spec.module, s.storeError(spec, err))
		return
	}
	s.ok(c, http.StatusOK, spec.module, "Permissions retrieved successfully", perms)
}

// storeError maps collection errors to envelopes.
func (s *Server) storeError(spec *entitySpec, err error) *apiError {
	switch {
	case errors.Is(err, errNotFound):
		return notFound(spec.label + " not found")
	case errors.Is(err, errNotDeleted):
		return conflict("NOT_DELETED", spec.label+" is not deleted")
	}
	return &apiError{
		status:  http.StatusInternalServerError,
		errType: envelope.ErrorTypeInternal,
		code:    "INTERNAL_ERROR",
		message: err.Error(),
	}
}

// checkUnique rejects values already used by another live record.
func (s *Server) checkUnique(spec *entitySpec, body Record, selfID string) *apiError {
	for _, field := range spec.unique {
		want, ok := body[field].(string)
		if !ok || want == "" {
			continue
		}
		taken := s.collections[spec.path].count(func(r Record) bool {
			got, _ := r[field].(string)
			return r["id"] != selfID && strings.EqualFold(got, want)
		})
		if taken > 0 {
			return conflict("DUPLICATE_"+strings.ToUpper(field),
				fmt.Sprintf("%s with this %s already exists", spec.label, field))
		}
	}
	return nil
}

// bindRecord reads an optional JSON object body.
func bindRecord(c *gin.Context) (Record, *apiError) {
	raw, err := c.GetRawData()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &apiError{
				status:  http.StatusRequestEntityTooLarge,
				errType: envelope.ErrorTypeValidation,
				code:    "PAYLOAD_TOO_LARGE",
				message: "Request body too large",
			}
		}
		return nil, validationError("Could not read request body", nil)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Record{}, nil
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, validationError("Request body must be a JSON object", gin.H{"code": "INVALID_JSON"})
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// missingFields reports required fields absent from body.
func missingFields(body Record, required []string) map[string]string {
	details := make(map[string]string)
	for _, f := range required {
		if isBlank(body[f]) {
			details[f] = "is required"
		}
	}
	return details
}

// emptyFields reports required fields that a patch would blank out.
func emptyFields(patch Record, required []string) map[string]string {
	details := make(map[string]string)
	for _, f := range required {
		if v, ok := patch[f]; ok && isBlank(v) {
			details[f] = "must not be empty"
		}
	}
	return details
}

// convert re-decodes a stored value into a typed destination.
func convert(v any, out any) error {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode stored value: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode stored value: %w", err)
	}
	return nil
}

// toRecord converts a typed value into its stored object form.
func toRecord(v any) Record {
	var rec Record
	if err := convert(v, &rec); err != nil || rec == nil {
		return Record{}
	}
	return rec
}
