package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/showroom/internal/chat"
	"github.com/hyperjump/showroom/internal/inventory"
	"github.com/hyperjump/showroom/internal/models"
	"github.com/hyperjump/showroom/internal/storage"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.respondError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if s.relay == nil {
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"details": "model provider API key is not configured",
		})
		return
	}
	s.fillChatContext(r, &req)

	s.logger.Debug("chat request", zap.Int("message_len", len(req.Message)),
		zap.Bool("brochure", req.BrochureURL != ""))
	text, err := s.relay.Ask(r.Context(), &req)
	if errors.Is(err, chat.ErrMissingMessage) {
		s.respondError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if err != nil {
		s.logger.Error("chat relay failed", zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"details": err.Error(),
		})
		return
	}
	s.respondJSON(w, http.StatusOK, models.ChatResponse{Response: text})
}

// fillChatContext populates inventory context and brochure URL from the
// store when auto-context is enabled and the caller omitted them. Store
// failures degrade to the relay's placeholder sentences.
func (s *Server) fillChatContext(r *http.Request, req *models.ChatRequest) {
	cfg := s.chatConfig()
	if !cfg.AutoContext {
		return
	}
	ctx := r.Context()
	if req.InventoryContext == "" {
		cars, err := s.storage.ListCars(ctx)
		if err != nil {
			s.logger.Warn("auto context: list cars failed", zap.Error(err))
		} else {
			req.InventoryContext = inventory.Summary(cars)
		}
	}
	if req.BrochureURL == "" || req.CustomInstructions == "" {
		settings, err := s.storage.GetSettings(ctx)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				s.logger.Warn("auto context: get settings failed", zap.Error(err))
			}
			return
		}
		if req.BrochureURL == "" {
			req.BrochureURL = settings.Brochure.URL
		}
		if req.CustomInstructions == "" {
			req.CustomInstructions = settings.Chatbot.CustomInstructions
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := s.storage.ListCars(r.Context())
	if err != nil {
		s.logger.Error("list cars failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cars == nil {
		cars = []*models.Car{}
	}
	s.respondJSON(w, http.StatusOK, cars)
}

func (s *Server) handleGetCar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	car, err := s.storage.GetCar(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "car not found")
		return
	}
	s.respondJSON(w, http.StatusOK, car)
}

func (s *Server) handleCreateCar(w http.ResponseWriter, r *http.Request) {
	var input models.CarInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	car := carFromInput(&input)
	car.ID = uuid.NewString()
	if err := s.storage.CreateCar(r.Context(), car); err != nil {
		s.logger.Error("create car failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.index.IndexCar(r.Context(), car); err != nil {
		s.logger.Warn("car search indexing failed", zap.String("id", car.ID), zap.Error(err))
	}
	s.respondJSON(w, http.StatusCreated, car)
}

func (s *Server) handleUpdateCar(w http.ResponseWriter, r *http.Request) {
	var input models.CarInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	car := carFromInput(&input)
	car.ID = chi.URLParam(r, "id")
	err := s.storage.UpdateCar(r.Context(), car)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "car not found")
		return
	}
	if err != nil {
		s.logger.Error("update car failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.index.IndexCar(r.Context(), car); err != nil {
		s.logger.Warn("car search indexing failed", zap.String("id", car.ID), zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, car)
}

func (s *Server) handleDeleteCar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.storage.DeleteCar(r.Context(), id); err != nil {
		s.logger.Error("delete car failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.index.Delete(r.Context(), id); err != nil {
		s.logger.Warn("car search index delete failed", zap.String("id", id), zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSearchCars(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	hits, err := s.index.Search(r.Context(), query, limit)
	if err != nil {
		s.logger.Error("car search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	cars := make([]*models.Car, 0, len(hits))
	for _, hit := range hits {
		car, err := s.storage.GetCar(r.Context(), hit.ID)
		if err != nil {
			// Index can briefly trail the store after a delete.
			continue
		}
		cars = append(cars, car)
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query": query,
		"cars":  cars,
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.storage.GetSettings(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		s.respondJSON(w, http.StatusOK, models.DefaultSettings())
		return
	}
	if err != nil {
		s.logger.Error("get settings failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.storage.SaveSettings(r.Context(), &settings); err != nil {
		s.logger.Error("save settings failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, &settings)
}

func (s *Server) handleThemePresets(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, models.ThemePresets())
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var input models.AppointmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !models.ValidPhone(input.Phone) {
		s.respondError(w, http.StatusBadRequest, "Please enter a valid phone number.")
		return
	}

	appt := models.NewAppointment(&input, time.Now())
	appt.ID = uuid.NewString()
	// A failed lead write is logged but never blocks the user's redirect to
	// the messaging deep link.
	if err := s.storage.CreateAppointment(r.Context(), appt); err != nil {
		s.logger.Error("failed to record appointment", zap.Error(err))
	} else {
		s.logger.Info("appointment recorded", zap.String("id", appt.ID), zap.String("model", appt.Model))
	}

	resp := map[string]interface{}{
		"status":      "recorded",
		"appointment": appt,
	}
	if link := s.whatsappLink(r, appt); link != "" {
		resp["whatsappUrl"] = link
	}
	s.respondJSON(w, http.StatusCreated, resp)
}

// whatsappLink builds the wa.me deep link the page redirects to after a
// test-drive submission, when the operator has a WhatsApp number configured.
func (s *Server) whatsappLink(r *http.Request, appt *models.Appointment) string {
	settings, err := s.storage.GetSettings(r.Context())
	if err != nil {
		return ""
	}
	number := settings.Profile.WhatsApp
	if number == "" {
		return ""
	}
	text := "Hello, I would like to book a test drive.\n\n*Model:* " + appt.Model +
		"\n*Name:* " + appt.Name + "\n*Phone:* " + appt.Phone
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(text)
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := s.storage.ListAppointments(r.Context())
	if err != nil {
		s.logger.Error("list appointments failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if appointments == nil {
		appointments = []*models.Appointment{}
	}
	s.respondJSON(w, http.StatusOK, appointments)
}

func (s *Server) handleUploadAsset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	assetURL, err := s.assets.Save(header.Filename, file)
	if err != nil {
		s.logger.Error("asset upload failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Debug("asset uploaded", zap.String("name", header.Filename), zap.String("url", assetURL))
	s.respondJSON(w, http.StatusCreated, map[string]string{"url": assetURL})
}

func carFromInput(in *models.CarInput) *models.Car {
	return &models.Car{
		Name:        in.Name,
		Tagline:     in.Tagline,
		Price:       in.Price,
		Image:       in.Image,
		Images:      in.Images,
		Description: in.Description,
		Specs:       in.Specs,
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
