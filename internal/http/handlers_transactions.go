package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

type transactionList struct {
	Incomes       []core.Transaction
	Expenses      []core.Transaction
	TotalIncome   core.Money
	TotalExpenses core.Money
	Balance       core.Money
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	s.render(w, r, http.StatusOK, "index.html", s.newPage("Finances", "home", sess))
}

func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	fin, err := s.finance.Transactions(r.Context(), backendSession(sess))
	if err != nil {
		s.writeError(w, r, sess, log.OpList, err)
		return
	}
	core.NewestFirst(fin.Incomes)
	core.NewestFirst(fin.Expenses)

	data := transactionList{
		Incomes:       fin.Incomes,
		Expenses:      fin.Expenses,
		TotalIncome:   core.TotalOf(fin.Incomes),
		TotalExpenses: core.TotalOf(fin.Expenses),
	}
	data.Balance = core.Balance(data.TotalIncome, data.TotalExpenses)
	s.render(w, r, http.StatusOK, "transactions", data)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeError(w, r, sess, log.OpCreate, err)
		return
	}
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	in, err := ParseTransactionInput(p, s.today())
	if err != nil {
		s.writeError(w, r, sess, log.OpValidate, err)
		return
	}

	res, err := s.finance.AddTransaction(r.Context(), backendSession(sess), kind, in)
	if err != nil {
		s.writeError(w, r, sess, log.OpCreate, err)
		return
	}

	var id int64
	category := core.Uncategorized
	if res.Transaction != nil {
		id = res.Transaction.ID
		category = res.Transaction.CategoryName()
	}
	s.structured.LogTransactionCreated(r.Context(), sess.Username, string(kind), id, in.Description, in.Amount.String(), category)

	resp := NewHTMXResponse().
		TriggerTransactionCreated(kind).
		TriggerFormReset().
		TriggerStatsRefresh()
	msg := kind.Label() + " added: " + formatMoney(in.Amount)
	if res.Warning != nil {
		resp.TriggerWarningNotification(res.Warning.Error())
		msg += ". " + res.Warning.Error()
	} else {
		resp.TriggerSuccessNotification(msg)
	}
	resp.BodyHTML(`<div class="success">` + templateEscape(msg) + `</div>`).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeError(w, r, sess, log.OpDelete, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, sess, log.OpDelete, err)
		return
	}
	if err := s.finance.DeleteTransaction(r.Context(), backendSession(sess), kind, id); err != nil {
		s.writeError(w, r, sess, log.OpDelete, err)
		return
	}
	s.logger.InfoContext(r.Context(), "Transaction deleted",
		log.FieldUsername, sess.Username,
		log.FieldKind, kind,
		log.FieldTxID, id)

	NewHTMXResponse().
		TriggerTransactionDeleted(kind, id).
		TriggerStatsRefresh().
		TriggerSuccessNotification(kind.Label() + " deleted").
		Write(w)
}
