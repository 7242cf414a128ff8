package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/marketduck/market-ledger/internal/dev"
	"github.com/marketduck/market-ledger/internal/ledger"
	"github.com/marketduck/market-ledger/internal/repository"
	"go.uber.org/zap"
)

type Server struct {
	ledger   ledger.Ledger
	itemRepo repository.ItemRepository
}

func NewServer(marketLedger ledger.Ledger, itemRepo repository.ItemRepository) Server {
	return Server{marketLedger, itemRepo}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestId)
	r.HandleFunc("/", s.handleHomepage).Methods("GET")
	r.HandleFunc("/fee", s.handleGetListFee).Methods("GET")
	r.HandleFunc("/items", s.handleListItem).Methods("POST")
	r.HandleFunc("/items", s.handleGetItems).Methods("GET")
	r.HandleFunc("/items/active", s.handleGetActiveItems).Methods("GET")
	r.HandleFunc("/items/{itemId}", s.handleGetItem).Methods("GET")
	r.HandleFunc("/items/{itemId}/delist", s.handleDelistItem).Methods("POST")
	r.HandleFunc("/items/{itemId}/buy", s.handleBuyItem).Methods("POST")
	r.HandleFunc("/users/{address}/items", s.handleGetUserItems).Methods("GET")
	r.NotFoundHandler = notFoundHandler()

	return r
}

type listRequest struct {
	Sender   string `json:"sender"`
	Amount   uint64 `json:"amount"`
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
	Price    uint64 `json:"price"`
}

type delistRequest struct {
	Sender string `json:"sender"`
}

type buyRequest struct {
	Sender   string `json:"sender"`
	Amount   uint64 `json:"amount"`
	Contract string `json:"contract"`
}

func (s Server) handleHomepage(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprintf(w, "Market Ledger")
}

func (s Server) handleGetListFee(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, map[string]uint64{"fee": s.ledger.GetListFee()})
}

func (s Server) handleListItem(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "list", errors.New("invalid request body"), http.StatusBadRequest, nil)
		return
	}

	sender, err := normalizeAddress(req.Sender)
	if err != nil {
		s.writeError(w, "list", err, http.StatusBadRequest, nil)
		return
	}

	contract, err := normalizeAddress(req.Contract)
	if err != nil {
		s.writeError(w, "list", err, http.StatusBadRequest, nil)
		return
	}

	item, err := s.ledger.List(sender, req.Amount, contract, req.TokenId, req.Price)
	if err != nil {
		s.writeError(w, "list", err, errorStatus(err), map[string]interface{}{"contract": contract, "tokenId": req.TokenId})
		return
	}

	writeJson(w, http.StatusCreated, item)
}

func (s Server) handleDelistItem(w http.ResponseWriter, r *http.Request) {
	itemId, err := getItemId(r)
	if err != nil {
		s.writeError(w, "delist", err, http.StatusBadRequest, nil)
		return
	}

	var req delistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "delist", errors.New("invalid request body"), http.StatusBadRequest, nil)
		return
	}

	sender, err := normalizeAddress(req.Sender)
	if err != nil {
		s.writeError(w, "delist", err, http.StatusBadRequest, nil)
		return
	}

	item, err := s.ledger.Delist(sender, itemId)
	if err != nil {
		s.writeError(w, "delist", err, errorStatus(err), map[string]interface{}{"itemId": itemId})
		return
	}

	writeJson(w, http.StatusOK, item)
}

func (s Server) handleBuyItem(w http.ResponseWriter, r *http.Request) {
	itemId, err := getItemId(r)
	if err != nil {
		s.writeError(w, "buy", err, http.StatusBadRequest, nil)
		return
	}

	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "buy", errors.New("invalid request body"), http.StatusBadRequest, nil)
		return
	}

	sender, err := normalizeAddress(req.Sender)
	if err != nil {
		s.writeError(w, "buy", err, http.StatusBadRequest, nil)
		return
	}

	contract := ""
	if req.Contract != "" {
		if contract, err = normalizeAddress(req.Contract); err != nil {
			s.writeError(w, "buy", err, http.StatusBadRequest, nil)
			return
		}
	}

	item, err := s.ledger.Buy(sender, req.Amount, contract, itemId)
	if err != nil {
		s.writeError(w, "buy", err, errorStatus(err), map[string]interface{}{"itemId": itemId})
		return
	}

	writeJson(w, http.StatusOK, item)
}

func (s Server) handleGetActiveItems(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, s.ledger.FetchActiveItems())
}

func (s Server) handleGetItems(w http.ResponseWriter, r *http.Request) {
	size, page := getPagination(r)

	items, total, err := s.itemRepo.GetAllItems(size, page)
	if err != nil {
		s.writeError(w, "items", err, http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	writeJson(w, http.StatusOK, items)
}

func (s Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	itemId, err := getItemId(r)
	if err != nil {
		s.writeError(w, "item", err, http.StatusBadRequest, nil)
		return
	}

	item, err := s.ledger.GetItem(itemId)
	if err != nil {
		s.writeError(w, "item", err, errorStatus(err), map[string]interface{}{"itemId": itemId})
		return
	}

	writeJson(w, http.StatusOK, item)
}

func (s Server) handleGetUserItems(w http.ResponseWriter, r *http.Request) {
	address, err := normalizeAddress(mux.Vars(r)["address"])
	if err != nil {
		s.writeError(w, "user", err, http.StatusBadRequest, nil)
		return
	}

	switch r.URL.Query().Get("role") {
	case "created":
		writeJson(w, http.StatusOK, s.ledger.FetchCreatedItems(address))
	case "purchased":
		writeJson(w, http.StatusOK, s.ledger.FetchPurchasedItems(address))
	default:
		s.writeError(w, "user", errors.New("role must be created or purchased"), http.StatusBadRequest, nil)
	}
}

func (s Server) writeError(w http.ResponseWriter, name string, err error, status int, extra map[string]interface{}) {
	devErr := dev.NewError("api", name, err, extra)
	reference := devErr.Slug()

	zap.L().With(
		zap.Error(err),
		zap.String("name", name),
		zap.String("reference", reference),
	).Warn("Api: Request failed")

	writeJson(w, status, map[string]string{"error": err.Error(), "reference": reference})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrNotSeller), errors.Is(err, ledger.ErrNotTokenOwner):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrSettlementFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func writeJson(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func getItemId(r *http.Request) (uint64, error) {
	itemId, ok := mux.Vars(r)["itemId"]
	if !ok {
		return 0, errors.New("invalid parameters")
	}

	return strconv.ParseUint(itemId, 10, 64)
}

func getPagination(r *http.Request) (size, page int) {
	size, page = 20, 1
	if s, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && s > 0 {
		size = s
	}
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	return size, page
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		_, _ = fmt.Fprintf(w, "Page not found")
	})
}
