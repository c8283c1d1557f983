package telemetry

import (
	"testing"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/registers"
)

func TestBuildCatalogMPUOnly(t *testing.T) {
	catalog := BuildCatalog(2, registers.CapabilityMPU6050)
	if len(catalog) != 9 {
		t.Fatalf("len = %d, want 9", len(catalog))
	}
	for _, s := range catalog {
		if s.UnitID != 2 || !s.Enabled {
			t.Errorf("sensor = %+v", s)
		}
	}
}

func TestBuildCatalogLoadOnly(t *testing.T) {
	catalog := BuildCatalog(5, registers.CapabilityLoad)
	if len(catalog) != 1 || catalog[0].Field != "load" || catalog[0].Unit != "kg" {
		t.Fatalf("catalog = %+v", catalog)
	}
	if catalog[0].ID != "5:load" {
		t.Errorf("id = %q, want 5:load", catalog[0].ID)
	}
}

func TestBuildCatalogWindOnly(t *testing.T) {
	catalog := BuildCatalog(3, registers.CapabilityWind)
	if len(catalog) != 2 {
		t.Fatalf("len = %d, want 2", len(catalog))
	}
	fields := map[string]string{catalog[0].Field: catalog[0].Unit, catalog[1].Field: catalog[1].Unit}
	if fields["wind_speed"] != "m/s" || fields["wind_direction"] != "deg" {
		t.Errorf("fields = %+v", fields)
	}
}

func TestBuildCatalogMPUAndLoad(t *testing.T) {
	catalog := BuildCatalog(1, registers.CapabilityMPU6050|registers.CapabilityLoad)
	if len(catalog) != 10 {
		t.Fatalf("len = %d, want 10", len(catalog))
	}
}

func TestBuildCatalogNoCapabilities(t *testing.T) {
	catalog := BuildCatalog(1, 0)
	if len(catalog) != 0 {
		t.Fatalf("catalog = %+v, want empty", catalog)
	}
}

func TestSensorIDFormat(t *testing.T) {
	if got := SensorID(12, "load"); got != "12:load" {
		t.Errorf("SensorID = %q, want 12:load", got)
	}
}
