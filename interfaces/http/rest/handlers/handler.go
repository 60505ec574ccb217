package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mappamentis/application/commands/bus"
	querybus "mappamentis/application/queries/bus"
	"mappamentis/pkg/common"
	pkgerrors "mappamentis/pkg/errors"
)

// base carries what every resource handler needs
type base struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// Deps groups the collaborators shared by all handlers
type Deps struct {
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	ErrorHandler *pkgerrors.ErrorHandler
	Logger       *zap.Logger
}

func newBase(d Deps) base {
	return base{
		commandBus: d.CommandBus,
		queryBus:   d.QueryBus,
		errors:     d.ErrorHandler,
		logger:     d.Logger,
	}
}

// execute sends cmd, then answers with the result of query
func execute[T any](h base, w http.ResponseWriter, r *http.Request, status int, cmd bus.Command, query querybus.Query) {
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	ask[T](h, w, r, status, query)
}

// ask answers with the result of query
func ask[T any](h base, w http.ResponseWriter, r *http.Request, status int, query querybus.Query) {
	result, err := querybus.AskAs[T](r.Context(), h.queryBus, query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, status, result)
}

// send answers 204 once cmd succeeds
func (h base) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondNoContent(w)
}

// decode reads a JSON body, reporting failures as 400s; it returns false when a response was sent
func (h base) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(w, r, v); err != nil {
		h.errors.Handle(w, r, err)
		return false
	}
	return true
}

func param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
