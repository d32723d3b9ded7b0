package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/interface/http/dto"
	"github.com/ignatzorin/talent-escrow/internal/interface/http/response"
	"github.com/ignatzorin/talent-escrow/internal/usecase/escrow"
)

// paramID - общий параметр пути /api/offers/:id. Для открытия это вид
// предложения, для остальных маршрутов адрес записи: gin требует одно имя
// параметра на одной позиции.
const paramID = "id"

type OfferHandler struct {
	openUC    *escrow.OpenOfferUseCase
	respondUC *escrow.RespondOfferUseCase
	reclaimUC *escrow.ReclaimExpiredUseCase
	getUC     *escrow.GetOfferUseCase
	listUC    *escrow.ListOffersUseCase
	kinds     valueobject.Kinds
}

func NewOfferHandler(
	openUC *escrow.OpenOfferUseCase,
	respondUC *escrow.RespondOfferUseCase,
	reclaimUC *escrow.ReclaimExpiredUseCase,
	getUC *escrow.GetOfferUseCase,
	listUC *escrow.ListOffersUseCase,
	kinds valueobject.Kinds,
) *OfferHandler {
	return &OfferHandler{
		openUC:    openUC,
		respondUC: respondUC,
		reclaimUC: reclaimUC,
		getUC:     getUC,
		listUC:    listUC,
		kinds:     kinds,
	}
}

// OpenOffer POST /api/offers/:id, где id - вид предложения
func (h *OfferHandler) OpenOffer(c *gin.Context) {
	signer, ok := currentAddress(c)
	if !ok {
		return
	}

	kind, err := valueobject.NewOfferKind(c.Param(paramID))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.OpenOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	target, err := derive.ParseRecordAddress(req.TargetProfile)
	if err != nil {
		response.Error(c, err)
		return
	}
	amount, err := valueobject.NewAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.openUC.Execute(c.Request.Context(), escrow.OpenOfferInput{
		Kind:          kind,
		Signer:        signer,
		TargetProfile: target,
		Message:       req.Message,
		Amount:        amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToOfferResponse(record))
}

// RespondOffer POST /api/offers/:id/respond
func (h *OfferHandler) RespondOffer(c *gin.Context) {
	signer, ok := currentAddress(c)
	if !ok {
		return
	}
	address, ok := recordParam(c, paramID)
	if !ok {
		return
	}

	var req dto.RespondOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	profile, err := derive.ParseRecordAddress(req.Profile)
	if err != nil {
		response.Error(c, err)
		return
	}
	opener, err := identity.ParseAddress(req.Opener)
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.respondUC.Execute(c.Request.Context(), escrow.RespondOfferInput{
		Signer:   signer,
		Address:  address,
		Accounts: escrow.RespondAccounts{Profile: profile, Opener: opener},
		Accept:   *req.Accept,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOfferResponse(record))
}

// ReclaimExpired POST /api/offers/:id/reclaim
func (h *OfferHandler) ReclaimExpired(c *gin.Context) {
	caller, ok := currentAddress(c)
	if !ok {
		return
	}
	address, ok := recordParam(c, paramID)
	if !ok {
		return
	}

	record, err := h.reclaimUC.Execute(c.Request.Context(), caller, address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOfferResponse(record))
}

// GetOffer GET /api/offers/:id
func (h *OfferHandler) GetOffer(c *gin.Context) {
	address, ok := recordParam(c, paramID)
	if !ok {
		return
	}

	view, err := h.getUC.Execute(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOfferViewResponse(view))
}

// ListMyOffers GET /api/offers?role=opener|target&status=pending
func (h *OfferHandler) ListMyOffers(c *gin.Context) {
	party, ok := currentAddress(c)
	if !ok {
		return
	}

	input := escrow.ListOffersInput{
		Party:  party,
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	switch {
	case input.Limit <= 0:
		input.Limit = 20
	case input.Limit > 100:
		input.Limit = 100
	}
	records, err := h.listUC.Execute(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToOfferResponses(records), len(records), input.Limit, input.Offset)
}

// DeriveAddress GET /api/offers/derive?kind=scout&opener=0x..&target=esc1..
func (h *OfferHandler) DeriveAddress(c *gin.Context) {
	kind, err := valueobject.NewOfferKind(c.Query("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}
	opener, err := identity.ParseAddress(c.Query("opener"))
	if err != nil {
		response.Error(c, err)
		return
	}
	target, err := derive.ParseRecordAddress(c.Query("target"))
	if err != nil {
		response.Error(c, err)
		return
	}

	address, bump, err := escrow.DeriveOfferAddress(h.kinds, kind, opener, target)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.DeriveOfferResponse{Address: address, Hex: address.Hex(), Bump: bump})
}
