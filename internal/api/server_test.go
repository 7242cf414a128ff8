package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marketduck/market-ledger/internal/chain"
	"github.com/marketduck/market-ledger/internal/entity"
	"github.com/marketduck/market-ledger/internal/ledger"
	"github.com/stretchr/testify/assert"
)

const (
	ownerAddr    = "0x0000000000000000000000000000000000000001"
	sellerAddr   = "0x00000000000000000000000000000000000000aa"
	buyerAddr    = "0x00000000000000000000000000000000000000bb"
	contractAddr = "0x00000000000000000000000000000000000000ff"

	testListFee = uint64(1000)
	testPrice   = uint64(10000)
)

type fakeRegistry struct{}

func (r fakeRegistry) GetRegistry(contractAddr string) (*entity.Registry, error) {
	return &entity.Registry{
		Address: contractAddr,
		Transitions: []entity.ContractTransition{
			{Name: "is_operator"},
			{Name: "transfer"},
		},
	}, nil
}

func (r fakeRegistry) TokenOwner(contractAddr string, tokenId uint64) (string, error) {
	return sellerAddr, nil
}

func (r fakeRegistry) TransferOperation(contractAddr string, batch entity.TransferBatch) chain.Operation {
	return chain.Operation{To: contractAddr, Tag: "transfer", Params: []entity.TransferBatch{batch}}
}

type fakeChain struct {
	submitErr error
}

func (c fakeChain) GetContractCode(contractAddr string) (string, error) {
	return "", nil
}

func (c fakeChain) GetContractSubState(contractAddr string, params ...interface{}) (string, error) {
	return "", nil
}

func (c fakeChain) GetBalance(address string) (*chain.BalanceAndNonce, error) {
	return &chain.BalanceAndNonce{Balance: "0"}, nil
}

func (c fakeChain) SubmitOperations(ops []chain.Operation) (*chain.OperationReceipt, error) {
	if c.submitErr != nil {
		return nil, c.submitErr
	}

	return &chain.OperationReceipt{Success: true}, nil
}

type stubItemRepo struct {
	items []entity.Item
	total int64
}

func (r stubItemRepo) GetAllItems(size, page int) ([]entity.Item, int64, error) {
	return r.items, r.total, nil
}

func (r stubItemRepo) GetActiveItems(size, page int) ([]entity.Item, int64, error) {
	return r.items, r.total, nil
}

func (r stubItemRepo) GetItem(id uint64) (entity.Item, error) {
	return entity.Item{}, errors.New("not implemented")
}

func (r stubItemRepo) GetItemsBySeller(seller string, size, page int) ([]entity.Item, int64, error) {
	return r.items, r.total, nil
}

func (r stubItemRepo) GetItemsByBuyer(buyer string, size, page int) ([]entity.Item, int64, error) {
	return r.items, r.total, nil
}

func (r stubItemRepo) GetBestItemId() (uint64, error) {
	return 0, nil
}

func newTestServer(submitErr error) Server {
	marketLedger := ledger.NewLedger(ownerAddr, testListFee, fakeRegistry{}, fakeChain{submitErr: submitErr})

	return NewServer(marketLedger, stubItemRepo{})
}

func doRequest(server Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&reader).Encode(body)
	}

	req := httptest.NewRequest(method, path, &reader)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	return rec
}

func listItem(server Server) *httptest.ResponseRecorder {
	return doRequest(server, "POST", "/items", listRequest{
		Sender:   sellerAddr,
		Amount:   testListFee,
		Contract: contractAddr,
		TokenId:  1,
		Price:    testPrice,
	})
}

func TestHomepage(t *testing.T) {
	server := newTestServer(nil)

	rec := doRequest(server, "GET", "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetListFee(t *testing.T) {
	server := newTestServer(nil)

	rec := doRequest(server, "GET", "/fee", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"fee":1000}`, rec.Body.String())
}

func TestListItem(t *testing.T) {
	server := newTestServer(nil)

	rec := listItem(server)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var item entity.Item
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, uint64(1), item.Id)
	assert.Equal(t, sellerAddr, item.Seller)
	assert.Equal(t, entity.ItemCreated, item.State.Status)
}

func TestListItem_InvalidAddress(t *testing.T) {
	server := newTestServer(nil)

	rec := doRequest(server, "POST", "/items", listRequest{
		Sender:   "bob",
		Amount:   testListFee,
		Contract: contractAddr,
		TokenId:  1,
		Price:    testPrice,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListItem_WrongFee(t *testing.T) {
	server := newTestServer(nil)

	rec := doRequest(server, "POST", "/items", listRequest{
		Sender:   sellerAddr,
		Amount:   testListFee - 1,
		Contract: contractAddr,
		TokenId:  1,
		Price:    testPrice,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelistItem(t *testing.T) {
	server := newTestServer(nil)
	listItem(server)

	rec := doRequest(server, "POST", "/items/1/delist", delistRequest{Sender: sellerAddr})
	assert.Equal(t, http.StatusOK, rec.Code)

	var item entity.Item
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, entity.ItemInactive, item.State.Status)
}

func TestDelistItem_NotSeller(t *testing.T) {
	server := newTestServer(nil)
	listItem(server)

	rec := doRequest(server, "POST", "/items/1/delist", delistRequest{Sender: buyerAddr})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDelistItem_NotFound(t *testing.T) {
	server := newTestServer(nil)

	rec := doRequest(server, "POST", "/items/99/delist", delistRequest{Sender: sellerAddr})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuyItem(t *testing.T) {
	server := newTestServer(nil)
	listItem(server)

	rec := doRequest(server, "POST", "/items/1/buy", buyRequest{
		Sender: buyerAddr,
		Amount: testPrice,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var item entity.Item
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, entity.ItemReleased, item.State.Status)
	assert.Equal(t, buyerAddr, item.Buyer)
}

func TestBuyItem_WrongPrice(t *testing.T) {
	server := newTestServer(nil)
	listItem(server)

	rec := doRequest(server, "POST", "/items/1/buy", buyRequest{
		Sender: buyerAddr,
		Amount: testPrice - 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuyItem_MismatchedContract(t *testing.T) {
	server := newTestServer(nil)
	listItem(server)

	rec := doRequest(server, "POST", "/items/1/buy", buyRequest{
		Sender:   buyerAddr,
		Amount:   testPrice,
		Contract: ownerAddr,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuyItem_SettlementFailure(t *testing.T) {
	server := newTestServer(errors.New("batch rejected"))
	listItem(server)

	rec := doRequest(server, "POST", "/items/1/buy", buyRequest{
		Sender: buyerAddr,
		Amount: testPrice,
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["reference"])
}

func TestGetActiveItems(t *testing.T) {
	server := newTestServer(nil)
	listItem(server)

	rec := doRequest(server, "GET", "/items/active", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []entity.Item
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 1)
}

func TestGetItems_TotalCountHeader(t *testing.T) {
	marketLedger := ledger.NewLedger(ownerAddr, testListFee, fakeRegistry{}, fakeChain{})
	server := NewServer(marketLedger, stubItemRepo{items: []entity.Item{{Id: 1}}, total: 12})

	rec := doRequest(server, "GET", "/items", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12", rec.Header().Get("X-Total-Count"))
}

func TestGetItem(t *testing.T) {
	server := newTestServer(nil)
	listItem(server)

	rec := doRequest(server, "GET", "/items/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, "GET", "/items/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUserItems(t *testing.T) {
	server := newTestServer(nil)
	listItem(server)

	rec := doRequest(server, "GET", fmt.Sprintf("/users/%s/items?role=created", sellerAddr), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []entity.Item
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 1)

	rec = doRequest(server, "GET", fmt.Sprintf("/users/%s/items?role=purchased", sellerAddr), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = doRequest(server, "GET", fmt.Sprintf("/users/%s/items", sellerAddr), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIdHeader(t *testing.T) {
	server := newTestServer(nil)

	rec := doRequest(server, "GET", "/fee", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestNotFound(t *testing.T) {
	server := newTestServer(nil)

	rec := doRequest(server, "GET", "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
