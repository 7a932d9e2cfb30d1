package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sheikh-saqib/double-entry-ledger/internal/ledger"
	"github.com/sheikh-saqib/double-entry-ledger/internal/models"
	"github.com/sheikh-saqib/double-entry-ledger/internal/session"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type accountResponse struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type transactionResponse struct {
	DebitAccount  string          `json:"debit_account"`
	CreditAccount string          `json:"credit_account"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}

// NewHandler exposes the session's ledger over HTTP.
func NewHandler(s *session.Session) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			accounts := []accountResponse{}
			for acc := range s.Ledger().Accounts() {
				accounts = append(accounts, toAccountResponse(acc))
			}
			writeJSON(w, http.StatusOK, accounts)
		case http.MethodPost:
			var req struct {
				Code string `json:"code"`
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
			if err := s.Ledger().AddAccount(req.Code, req.Name); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, accountResponse{Code: req.Code, Name: req.Name, Balance: decimal.Zero})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			DebitAccount  string           `json:"debit_account"`
			CreditAccount string           `json:"credit_account"`
			Amount        *decimal.Decimal `json:"amount"`
			Description   string           `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Amount == nil {
			http.Error(w, "amount is a mandatory field", http.StatusBadRequest)
			return
		}

		err := s.Ledger().PostTransaction(r.Context(), req.DebitAccount, req.CreditAccount, *req.Amount, req.Description)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, transactionResponse{
			DebitAccount:  req.DebitAccount,
			CreditAccount: req.CreditAccount,
			Amount:        *req.Amount,
			Description:   req.Description,
		})
	})

	mux.HandleFunc("/journal", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		journal := []transactionResponse{}
		for tx := range s.Ledger().Journal() {
			journal = append(journal, toTransactionResponse(tx))
		}
		writeJSON(w, http.StatusOK, journal)
	})

	mux.HandleFunc("/snapshot/save", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := s.Save(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
	})

	mux.HandleFunc("/snapshot/load", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := s.Load(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		accounts, journal := s.Ledger().Len()
		writeJSON(w, http.StatusOK, map[string]any{"status": "loaded", "accounts": accounts, "journal": journal})
	})

	return mux
}

func toAccountResponse(acc models.Account) accountResponse {
	return accountResponse{Code: acc.Code, Name: acc.Name, Balance: acc.Balance}
}

func toTransactionResponse(tx models.Transaction) transactionResponse {
	return transactionResponse{
		DebitAccount:  tx.DebitAccount,
		CreditAccount: tx.CreditAccount,
		Amount:        tx.Amount,
		Description:   tx.Description,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrAccountExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ledger.ErrUnknownAccount):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		logrus.WithError(err).Error("request failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
