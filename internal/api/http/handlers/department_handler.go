package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/department-service/internal/api/dto"
	"github.com/spec-kit/department-service/internal/domain"
	"github.com/spec-kit/department-service/internal/service"
	apperrors "github.com/spec-kit/department-service/pkg/util/errorutil"
)

// DepartmentHandler exposes the /api/departments resource.
type DepartmentHandler struct {
	departments *service.DepartmentService
}

// NewDepartmentHandler constructs handler.
func NewDepartmentHandler(departments *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

// List handles GET /api/departments.
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	depts, err := h.departments.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		resp = append(resp, departmentResponse(&depts[i]))
	}
	return c.JSON(resp)
}

// Get handles GET /api/departments/:id.
func (h *DepartmentHandler) Get(c *fiber.Ctx) error {
	id, err := service.ParseDepartmentID(c.Params("id"))
	if err != nil {
		return err
	}
	dept, err := h.departments.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(departmentResponse(dept))
}

// Create handles POST /api/departments.
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	req, err := parseDepartmentRequest(c)
	if err != nil {
		return err
	}
	dept, err := h.departments.Create(c.UserContext(), service.DepartmentInput{Name: req.Name, URL: req.URL})
	if err != nil {
		return err
	}
	return c.JSON(departmentResponse(dept))
}

// Update handles PUT /api/departments/:id.
func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	id, err := service.ParseDepartmentID(c.Params("id"))
	if err != nil {
		return err
	}
	req, err := parseDepartmentRequest(c)
	if err != nil {
		return err
	}
	dept, err := h.departments.Update(c.UserContext(), id, service.DepartmentInput{Name: req.Name, URL: req.URL})
	if err != nil {
		return err
	}
	return c.JSON(departmentResponse(dept))
}

// Delete handles DELETE /api/departments/:id.
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	id, err := service.ParseDepartmentID(c.Params("id"))
	if err != nil {
		return err
	}
	if err := h.departments.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{Success: true})
}

// A body that is not a JSON object of strings counts as missing fields.
func parseDepartmentRequest(c *fiber.Ctx) (dto.DepartmentRequest, error) {
	var req dto.DepartmentRequest
	if len(c.Body()) == 0 {
		return req, apperrors.NewValidationError(service.MsgFieldsRequired, nil)
	}
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError(service.MsgFieldsRequired, map[string]any{"reason": "invalid payload"})
	}
	return req, nil
}

func departmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:   dept.ID,
		Name: dept.Name,
		URL:  dept.URL,
	}
}
