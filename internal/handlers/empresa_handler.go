package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"sierras-backend/internal/models"
	"sierras-backend/internal/repositories"
)

// EmpresaHandler serves the empresa and sucursal catalog. These are plain
// CRUD endpoints; the repositories are thin enough that no service layer
// sits in between.
type EmpresaHandler struct {
	EmpresaRepo  *repositories.EmpresaRepository
	SucursalRepo *repositories.SucursalRepository
	Audit        *ActionLogger
}

func NewEmpresaHandler(empresaRepo *repositories.EmpresaRepository, sucursalRepo *repositories.SucursalRepository, audit *ActionLogger) *EmpresaHandler {
	return &EmpresaHandler{
		EmpresaRepo:  empresaRepo,
		SucursalRepo: sucursalRepo,
		Audit:        audit,
	}
}

func (h *EmpresaHandler) CreateEmpresa(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEmpresaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.RazonSocial == "" || req.RUT == "" {
		http.Error(w, "razon_social y rut son obligatorios", http.StatusBadRequest)
		return
	}

	empresa := &models.Empresa{
		RazonSocial: req.RazonSocial,
		RUT:         req.RUT,
		Telefono:    req.Telefono,
		Email:       req.Email,
		Direccion:   req.Direccion,
		Activo:      true,
	}

	if err := h.EmpresaRepo.Create(r.Context(), empresa); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.Audit.log(r, "CREATE", "empresa", &empresa.ID, fmt.Sprintf("Empresa %s", empresa.RazonSocial))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(empresa)
}

func (h *EmpresaHandler) GetEmpresa(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	empresa, err := h.EmpresaRepo.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(empresa)
}

func (h *EmpresaHandler) ListEmpresas(w http.ResponseWriter, r *http.Request) {
	empresas, err := h.EmpresaRepo.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(empresas)
}

func (h *EmpresaHandler) UpdateEmpresa(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	var empresa models.Empresa
	if err := json.NewDecoder(r.Body).Decode(&empresa); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.EmpresaRepo.Update(r.Context(), id, &empresa); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.Audit.log(r, "UPDATE", "empresa", &id, fmt.Sprintf("Empresa %s", empresa.RazonSocial))

	empresa.ID = id
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&empresa)
}

// DeactivateEmpresa soft-deletes an empresa; its sierras and history stay
func (h *EmpresaHandler) DeactivateEmpresa(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	if err := h.EmpresaRepo.Deactivate(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.Audit.log(r, "DELETE", "empresa", &id, "Empresa desactivada")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *EmpresaHandler) CreateSucursal(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSucursalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Nombre == "" {
		http.Error(w, "nombre es obligatorio", http.StatusBadRequest)
		return
	}

	// The empresa must exist and be active
	empresa, err := h.EmpresaRepo.Get(r.Context(), req.EmpresaID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !empresa.Activo {
		http.Error(w, "la empresa está inactiva", http.StatusBadRequest)
		return
	}

	sucursal := &models.Sucursal{
		EmpresaID: req.EmpresaID,
		Nombre:    req.Nombre,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
	}

	if err := h.SucursalRepo.Create(r.Context(), sucursal); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.Audit.log(r, "CREATE", "sucursal", &sucursal.ID, fmt.Sprintf("Sucursal %s de %s", sucursal.Nombre, empresa.RazonSocial))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sucursal)
}

func (h *EmpresaHandler) GetSucursal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	sucursal, err := h.SucursalRepo.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sucursal)
}

// ListSucursales lists branches, cliente-scoped to the session empresa
func (h *EmpresaHandler) ListSucursales(w http.ResponseWriter, r *http.Request) {
	sucursales, err := h.SucursalRepo.List(r.Context(), empresaScope(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sucursales)
}

func (h *EmpresaHandler) UpdateSucursal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	var sucursal models.Sucursal
	if err := json.NewDecoder(r.Body).Decode(&sucursal); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.SucursalRepo.Update(r.Context(), id, &sucursal); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.Audit.log(r, "UPDATE", "sucursal", &id, fmt.Sprintf("Sucursal %s", sucursal.Nombre))

	sucursal.ID = id
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&sucursal)
}
