package codec

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"famcare/internal/domain"
)

func sampleArchive() *Archive {
	duration := 90
	created := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	return &Archive{
		Events: []*domain.MedicalEvent{
			{
				ID:               "e1",
				Date:             "2024-05-10",
				Type:             domain.EventTypeDentalConsultation,
				Description:      "Limpieza dental",
				PatientID:        "3",
				IsapreReimbursed: true,
				CreatedAt:        created,
				UpdatedAt:        created,
			},
		},
		Photos: []*domain.EventPhoto{
			{
				ID:              "p1",
				EventID:         "e1",
				PhotoURL:        "https://photos.example.com/abc",
				PhotoExternalID: "abc",
				CreatedAt:       created,
			},
		},
		Recordings: []*domain.EventRecording{
			{
				ID:              "r1",
				EventID:         "e1",
				RecordingURL:    "/files/e1/rec.m4a",
				FileName:        "consulta.m4a",
				DurationSeconds: &duration,
				CreatedAt:       created,
			},
		},
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			c := ForFormat(format)
			if c == nil {
				t.Fatalf("no codec for %q", format)
			}

			var buf bytes.Buffer
			want := sampleArchive()
			if err := c.Export(want, &buf); err != nil {
				t.Fatalf("Export: %v", err)
			}

			got, err := c.Parse(&buf)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestForFormat(t *testing.T) {
	if c := ForFormat("yml"); c == nil || c.Format() != "yaml" {
		t.Error("yml should alias yaml")
	}
	if c := ForFormat("xml"); c != nil {
		t.Errorf("unexpected codec for xml: %v", c)
	}
}

func TestJSONCodec_ParseMalformed(t *testing.T) {
	if _, err := NewJSONCodec().Parse(strings.NewReader("{broken")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestYAMLCodec_ParseMalformed(t *testing.T) {
	if _, err := NewYAMLCodec().Parse(strings.NewReader("events: [}")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestYAMLCodec_ExportShape(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLCodec().Export(sampleArchive(), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"patient_id:", "isapre_reimbursed:", "duration_seconds:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
