package devapi

import (
	"time"

	"github.com/wildguard/console/internal/core/domain"
)

func ptr[T any](v T) *T { return &v }

type seedDetection struct {
	hoursAgo   float64
	camera     int
	kind       string
	object     string
	confidence float64
	alert      string
	verified   bool
}

var seedDetections = []seedDetection{
	{0.5, 0, "image", "elephant", 0.94, "low", true},
	{1.2, 2, "image", "person", 0.88, "high", false},
	{2.0, 1, "audio", "gunshot", 0.81, "critical", false},
	{3.5, 3, "image", "lion", 0.91, "medium", true},
	{5.0, 0, "image", "zebra", 0.86, "low", false},
	{8.0, 4, "audio", "chainsaw", 0.77, "high", false},
	{20.0, 1, "image", "giraffe", 0.89, "low", true},
	{26.0, 2, "image", "poacher", 0.83, "critical", true},
	{30.0, 3, "image", "rhino", 0.92, "medium", false},
	{49.0, 0, "image", "buffalo", 0.79, "low", false},
	{73.0, 4, "image", "vehicle", 0.74, "high", false},
	{98.0, 1, "image", "leopard", 0.87, "medium", true},
	{120.0, 3, "image", "elephant", 0.95, "low", true},
	{150.0, 2, "image", "human", 0.69, "high", false},
}

func (s *Store) seed() error {
	now := s.now()

	if _, err := s.addAccount("admin", "admin123", "admin@wildguard.org", "Admin", domain.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.addAccount("ranger1", "ranger123", "ranger1@wildguard.org", "Ranger One", domain.RoleUser); err != nil {
		return err
	}

	cams := []domain.Camera{
		{Name: "North Ridge", Location: "Northern Sector", Latitude: -1.2864, Longitude: 36.8172, AltitudeM: ptr(1795.0), IsActive: true, IsOnline: true, Resolution: "1080p", BatteryLevel: 86, StorageAvailableGB: ptr(42.5)},
		{Name: "River Crossing", Location: "Mara River", Latitude: -1.5102, Longitude: 35.1441, IsActive: true, IsOnline: true, Resolution: "4K", BatteryLevel: 64, StorageAvailableGB: ptr(18.0)},
		{Name: "East Gate", Location: "Eastern Boundary", Latitude: -1.3021, Longitude: 36.9988, IsActive: true, IsOnline: false, Resolution: "1080p", BatteryLevel: 12, StorageAvailableGB: ptr(3.2)},
		{Name: "Waterhole A", Location: "Central Plains", Latitude: -1.4012, Longitude: 36.6603, AltitudeM: ptr(1650.0), IsActive: true, IsOnline: true, Resolution: "1080p", BatteryLevel: 97, StorageAvailableGB: ptr(60.1)},
		{Name: "South Fence", Location: "Southern Sector", Latitude: -1.6233, Longitude: 36.7420, IsActive: false, IsOnline: false, Resolution: "720p", BatteryLevel: 0},
	}
	for _, c := range cams {
		c.ID = s.nextID()
		c.CreatedAt = stamp(now.Add(-90 * 24 * time.Hour))
		c.LastPing = stamp(now.Add(-5 * time.Minute))
		s.cameras = append(s.cameras, c)
	}

	s.species = []domain.Species{
		{Name: "African Elephant", ScientificName: "Loxodonta africana", ConservationStatus: "Endangered", Habitat: "Savanna", AverageWeightKg: ptr(6000.0), IsEndangered: true, PoachingRiskLevel: "critical"},
		{Name: "Black Rhinoceros", ScientificName: "Diceros bicornis", ConservationStatus: "Critically Endangered", Habitat: "Shrubland", AverageWeightKg: ptr(1100.0), IsEndangered: true, PoachingRiskLevel: "critical"},
		{Name: "Lion", ScientificName: "Panthera leo", ConservationStatus: "Vulnerable", Habitat: "Grassland", AverageWeightKg: ptr(190.0), IsEndangered: false, PoachingRiskLevel: "medium"},
		{Name: "Reticulated Giraffe", ScientificName: "Giraffa reticulata", ConservationStatus: "Endangered", Habitat: "Savanna woodland", AverageHeightM: ptr(5.2), IsEndangered: true, PoachingRiskLevel: "high"},
	}
	for i := range s.species {
		s.species[i].ID = s.nextID()
		s.species[i].CreatedAt = stamp(now.Add(-120 * 24 * time.Hour))
	}

	for _, sd := range seedDetections {
		cam := s.cameras[sd.camera]
		at := now.Add(-time.Duration(sd.hoursAgo * float64(time.Hour)))
		d := domain.Detection{
			ID:              s.nextID(),
			CameraTrapID:    cam.ID,
			CameraName:      cam.Name,
			DetectionType:   sd.kind,
			DetectedObject:  sd.object,
			Type:            domain.CategoryOf(sd.object),
			Confidence:      sd.confidence,
			AlertLevel:      sd.alert,
			InferenceTimeMs: 120 + 40*sd.confidence,
			IsVerified:      sd.verified,
			CreatedAt:       stamp(at),
		}
		if sd.kind == "audio" {
			d.AudioURL = "/media/audio/" + d.ID.String() + ".wav"
		} else {
			d.ImageURL = "/media/images/" + d.ID.String() + ".jpg"
		}
		s.detections = append(s.detections, detectionRecord{Detection: d, at: at})
	}

	emergencies := []struct {
		hoursAgo float64
		kind     string
		severity string
		desc     string
		location string
		resolved bool
	}{
		{1.2, "poaching", "critical", "Armed intruder spotted near the river crossing", "Mara River", false},
		{8.0, "illegal_logging", "high", "Chainsaw activity detected at the south fence", "Southern Sector", false},
		{26.0, "poaching", "critical", "Poacher confirmed at East Gate", "Eastern Boundary", true},
	}
	for _, e := range emergencies {
		at := now.Add(-time.Duration(e.hoursAgo * float64(time.Hour)))
		rec := emergencyRecord{
			EmergencyAlert: domain.EmergencyAlert{
				ID:          s.nextID(),
				AlertType:   e.kind,
				Severity:    e.severity,
				Description: e.desc,
				Location:    e.location,
				IsResolved:  e.resolved,
				CreatedAt:   stamp(at),
			},
			at: at,
		}
		if e.resolved {
			rec.ResolutionNotes = "Ranger unit dispatched, suspect detained"
			rec.ResolvedAt = stamp(at.Add(3 * time.Hour))
		}
		s.emergencies = append(s.emergencies, rec)
	}

	s.contacts = []domain.EmergencyContact{
		{ID: s.nextID(), Name: "Park Headquarters", Role: "Operations", Phone: "+254 700 000 111", Email: "hq@wildguard.org", Organization: "WildGuard", IsPrimary: true},
		{ID: s.nextID(), Name: "Anti-Poaching Unit", Role: "Rapid response", Phone: "+254 700 000 222", Organization: "Wildlife Service", IsPrimary: true},
		{ID: s.nextID(), Name: "Veterinary Team", Role: "Animal care", Phone: "+254 700 000 333", Email: "vet@wildguard.org"},
	}
	return nil
}
