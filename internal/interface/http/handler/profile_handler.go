package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/talent-escrow/internal/interface/http/dto"
	"github.com/ignatzorin/talent-escrow/internal/interface/http/response"
	"github.com/ignatzorin/talent-escrow/internal/usecase/profile"
)

type ProfileHandler struct {
	createUC *profile.CreateProfileUseCase
	updateUC *profile.UpdateProfileUseCase
	getUC    *profile.GetProfileUseCase
}

func NewProfileHandler(
	createUC *profile.CreateProfileUseCase,
	updateUC *profile.UpdateProfileUseCase,
	getUC *profile.GetProfileUseCase,
) *ProfileHandler {
	return &ProfileHandler{
		createUC: createUC,
		updateUC: updateUC,
		getUC:    getUC,
	}
}

// CreateProfile POST /api/profiles
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	owner, ok := currentAddress(c)
	if !ok {
		return
	}

	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.createUC.Execute(c.Request.Context(), profile.CreateProfileInput{
		Owner:  owner,
		Handle: req.Handle,
		Fields: req.Fields(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToProfileResponse(created))
}

// UpdateMe PUT /api/profiles/me
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	owner, ok := currentAddress(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	updated, err := h.updateUC.Execute(c.Request.Context(), owner, req.Fields())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProfileResponse(updated))
}

// GetMe GET /api/profiles/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	owner, ok := currentAddress(c)
	if !ok {
		return
	}

	p, err := h.getUC.ByOwner(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProfileResponse(p))
}

// GetProfile GET /api/profiles/:address
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	address, ok := recordParam(c, "address")
	if !ok {
		return
	}

	p, err := h.getUC.Execute(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProfileResponse(p))
}
