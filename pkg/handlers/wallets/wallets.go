package wallets

import (
	"net/http"

	"github.com/chris/settlement-console/pkg/handlers"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/go-chi/chi/v5"
)

// WalletsHandler exposes wallets read-only.
type WalletsHandler struct {
	Store storage.WalletReader
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(store storage.WalletReader) *WalletsHandler {
	return &WalletsHandler{Store: store}
}

// GetWalletByUserId handles GET /wallets/{userId}.
func (h *WalletsHandler) GetWalletByUserId(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.Store.GetWallet(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handlers.WriteError(w, r, "Failed to retrieve wallet", err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, wallet)
}
