package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/tariff"
)

type listCatalogQuery struct {
	Query           string `form:"q"`
	IncludeInactive string `form:"include_inactive"`
}

func bindListCatalogQuery(c *gin.Context) (catalogdomain.ListRequest, error) {
	var query listCatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return catalogdomain.ListRequest{}, invalidRequestError()
	}

	includeInactive, err := parseOptionalBool(query.IncludeInactive)
	if err != nil {
		return catalogdomain.ListRequest{}, newValidationError("include_inactive", "invalid_include_inactive", "invalid include_inactive")
	}

	req := catalogdomain.ListRequest{Query: strings.TrimSpace(query.Query)}
	if includeInactive != nil {
		req.IncludeInactive = *includeInactive
	}
	return req, nil
}

func (s *Server) ListRoles(c *gin.Context) {
	req, err := bindListCatalogQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.catalogSvc.ListRoles(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type saveRoleRequest struct {
	Name   string `json:"nombre"`
	Status string `json:"estado"`
}

func (s *Server) SaveRole(c *gin.Context) {
	var req saveRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.SaveRole(c.Request.Context(), catalogdomain.SaveRoleRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Name:   strings.TrimSpace(req.Name),
		Status: catalogdomain.Status(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "catalog.role.save", "role", resp.ID, nil)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListClinics(c *gin.Context) {
	req, err := bindListCatalogQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.catalogSvc.ListClinics(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type saveClinicRequest struct {
	Name      string `json:"nombre"`
	ShortCode string `json:"codigo"`
	City      string `json:"ciudad"`
	Status    string `json:"estado"`
}

func (s *Server) SaveClinic(c *gin.Context) {
	var req saveClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.SaveClinic(c.Request.Context(), catalogdomain.SaveClinicRequest{
		ID:        strings.TrimSpace(c.Param("id")),
		Name:      strings.TrimSpace(req.Name),
		ShortCode: strings.TrimSpace(req.ShortCode),
		City:      strings.TrimSpace(req.City),
		Status:    catalogdomain.Status(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "catalog.clinic.save", "clinic", resp.ID, nil)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProfessionals(c *gin.Context) {
	req, err := bindListCatalogQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.catalogSvc.ListProfessionals(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type saveProfessionalRequest struct {
	Name      string   `json:"nombre"`
	RUT       string   `json:"rut"`
	Email     string   `json:"email"`
	Specialty string   `json:"especialidad"`
	RoleIDs   []string `json:"roles"`
	Status    string   `json:"estado"`
}

func (s *Server) SaveProfessional(c *gin.Context) {
	var req saveProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.SaveProfessional(c.Request.Context(), catalogdomain.SaveProfessionalRequest{
		ID:        strings.TrimSpace(c.Param("id")),
		Name:      strings.TrimSpace(req.Name),
		RUT:       strings.TrimSpace(req.RUT),
		Email:     strings.TrimSpace(req.Email),
		Specialty: strings.TrimSpace(req.Specialty),
		RoleIDs:   req.RoleIDs,
		Status:    catalogdomain.Status(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "catalog.professional.save", "professional", resp.ID, nil)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProcedures(c *gin.Context) {
	req, err := bindListCatalogQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.catalogSvc.ListProcedures(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProcedure(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.catalogSvc.GetProcedure(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type saveProcedureRequest struct {
	Code    string   `json:"codigo"`
	Name    string   `json:"nombre"`
	RoleIDs []string `json:"roles"`
	Status  string   `json:"estado"`
}

func (s *Server) SaveProcedure(c *gin.Context) {
	var req saveProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.SaveProcedure(c.Request.Context(), catalogdomain.SaveProcedureRequest{
		ID:      strings.TrimSpace(c.Param("id")),
		Code:    strings.TrimSpace(req.Code),
		Name:    strings.TrimSpace(req.Name),
		RoleIDs: req.RoleIDs,
		Status:  catalogdomain.Status(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "catalog.procedure.save", "procedure", resp.ID, nil)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProcedureTariffs(c *gin.Context) {
	var table tariff.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.catalogSvc.UpdateProcedureTariffs(c.Request.Context(), id, table)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "catalog.procedure.tariffs.update", "procedure", resp.ID, map[string]any{
		"clinics": len(table),
	})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
