package network

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/leengari/recordstore/internal/domain/data"
	"github.com/leengari/recordstore/internal/domain/schema"
)

type addTableRequest struct {
	TableName string        `json:"table_name"`
	Schema    schema.Schema `json:"schema"`
}

// readBody reads the request body, answering 413 or 400 itself when the
// body is unusable
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body larger than %d bytes", tooLarge.Limit))
			return nil, false
		}
		respondError(w, r, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}
	return body, true
}

func (s *Server) handleListDatabases(w http.ResponseWriter, r *http.Request, _ Params) {
	names, err := s.engine.ListDatabases()
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, names)
}

func (s *Server) handleCreateDatabase(w http.ResponseWriter, r *http.Request, p Params) {
	name := p["name"]
	if err := s.engine.CreateDatabase(name); err != nil {
		respondFailure(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, fmt.Sprintf("Database %s created successfully", name))
}

func (s *Server) handleDropDatabase(w http.ResponseWriter, r *http.Request, p Params) {
	name := p["name"]
	if err := s.engine.DropDatabase(name); err != nil {
		respondFailure(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, fmt.Sprintf("Database %s dropped successfully", name))
}

func (s *Server) handleAddTable(w http.ResponseWriter, r *http.Request, p Params) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var req addTableRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	if err := s.engine.AddTable(p["db"], req.TableName, req.Schema); err != nil {
		respondFailure(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, fmt.Sprintf("Table %s added successfully", req.TableName))
}

func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request, p Params) {
	table := p["table"]
	if err := s.engine.DeleteTable(p["db"], table); err != nil {
		respondFailure(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, fmt.Sprintf("Table %s deleted successfully", table))
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request, p Params) {
	names, err := s.engine.ListTables(p["db"])
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, names)
}

func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request, p Params) {
	sch, err := s.engine.GetSchema(p["db"], p["table"])
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sch)
}

func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request, p Params) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	fields, err := data.FieldsFromJSON(body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	if _, err := s.engine.AddRowFields(p["db"], p["table"], fields); err != nil {
		respondFailure(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Row added successfully")
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request, p Params) {
	index, err := strconv.Atoi(p["index"])
	if err != nil {
		respondError(w, r, http.StatusNotFound, fmt.Sprintf("row index %q is not an integer", p["index"]))
		return
	}

	if err := s.engine.DeleteRow(p["db"], p["table"], index); err != nil {
		respondFailure(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Row deleted successfully")
}

func (s *Server) handleGetRows(w http.ResponseWriter, r *http.Request, p Params) {
	rows, err := s.engine.GetRows(p["db"], p["table"])
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (s *Server) handleIntersect(w http.ResponseWriter, r *http.Request, p Params) {
	rows, err := s.engine.Intersect(p["db"], p["left"], p["right"])
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
