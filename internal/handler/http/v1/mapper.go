package v1

import (
	"time"

	"github.com/shenikar/safety_coordination_system/internal/models"
)

func toPoints(in []PointDTO) []models.Point {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Point, len(in))
	for i, p := range in {
		out[i] = models.Point{Latitude: p.Latitude, Longitude: p.Longitude}
	}
	return out
}

func fromPoints(in []models.Point) []PointDTO {
	if len(in) == 0 {
		return nil
	}
	out := make([]PointDTO, len(in))
	for i, p := range in {
		out[i] = PointDTO{Latitude: p.Latitude, Longitude: p.Longitude}
	}
	return out
}

// DTOToGeofenceModel преобразует DTO создания/обновления в доменную модель
func DTOToGeofenceModel(dto GeofenceRequest) *models.Geofence {
	return &models.Geofence{
		UserID:       dto.UserID,
		Name:         dto.Name,
		Shape:        models.GeofenceShape(dto.Shape),
		Latitude:     dto.Latitude,
		Longitude:    dto.Longitude,
		RadiusMeters: dto.RadiusMeters,
		Polygon:      toPoints(dto.Polygon),
		RiskLevel:    models.RiskLevel(dto.RiskLevel),
		MaxDwell:     time.Duration(dto.MaxDwellSeconds) * time.Second,
		Schedule:     dto.Schedule,
		ExpiresAt:    dto.ExpiresAt,
		Status:       dto.Status,
	}
}

// ModelToGeofenceResponse преобразует доменную модель в DTO для ответа
func ModelToGeofenceResponse(model *models.Geofence) *GeofenceResponse {
	return &GeofenceResponse{
		ID:              model.ID,
		UserID:          model.UserID,
		Name:            model.Name,
		Shape:           string(model.Shape),
		Latitude:        model.Latitude,
		Longitude:       model.Longitude,
		RadiusMeters:    model.RadiusMeters,
		Polygon:         fromPoints(model.Polygon),
		RiskLevel:       string(model.RiskLevel),
		MaxDwellSeconds: int(model.MaxDwell / time.Second),
		Schedule:        model.Schedule,
		ExpiresAt:       model.ExpiresAt,
		Status:          model.Status,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// ModelsToGeofenceResponses преобразует слайс моделей в слайс DTO
func ModelsToGeofenceResponses(models []*models.Geofence) []*GeofenceResponse {
	responses := make([]*GeofenceResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToGeofenceResponse(model)
	}
	return responses
}

func ModelToObligationResponse(model *models.Obligation) *ObligationResponse {
	if model == nil {
		return nil
	}
	return &ObligationResponse{
		ID:           model.ID,
		UserID:       model.UserID,
		Kind:         string(model.Kind),
		Deadline:     model.Deadline,
		GraceSeconds: int(model.GracePeriod / time.Second),
		Status:       string(model.Status),
		GeofenceID:   model.GeofenceID,
		JourneyID:    model.JourneyID,
		EmergencyID:  model.EmergencyID,
		Note:         model.Note,
		ResolvedAt:   model.ResolvedAt,
		Version:      model.Version,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func ModelsToObligationResponses(models []*models.Obligation) []*ObligationResponse {
	responses := make([]*ObligationResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToObligationResponse(model)
	}
	return responses
}

func DTOToJourneyModel(dto StartJourneyRequest) *models.Journey {
	return &models.Journey{
		UserID:          dto.UserID,
		Route:           toPoints(dto.Route),
		ToleranceMeters: dto.ToleranceMeters,
		ExpectedArrival: dto.ExpectedArrival,
	}
}

func DTOToLocationUpdate(dto IngestRequest) *models.LocationUpdate {
	u := &models.LocationUpdate{
		UserID:         dto.UserID,
		Timestamp:      dto.Timestamp,
		CheckinMessage: dto.CheckinMessage,
		ObligationID:   dto.ObligationID,
		Duress:         dto.Duress,
	}
	if dto.Location != nil {
		u.Location = &models.Point{Latitude: dto.Location.Latitude, Longitude: dto.Location.Longitude}
	}
	return u
}

func DTOToRecipients(userID string, in []RecipientDTO) []models.Contact {
	out := make([]models.Contact, len(in))
	for i, r := range in {
		out[i] = models.Contact{
			ContactID:    r.ContactID,
			UserID:       userID,
			Name:         r.Name,
			PriorityTier: r.PriorityTier,
			Addresses:    r.Addresses,
			QuietHours:   r.QuietHours,
			Timezone:     r.Timezone,
		}
	}
	return out
}
