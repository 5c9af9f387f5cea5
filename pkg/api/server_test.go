package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/timetable-sheets/pkg/api/routes"
	"github.com/travigo/timetable-sheets/pkg/ctdf"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
)

func init() {
	log.Logger = zerolog.Nop()
}

type memoryStore struct {
	stopTimetables []*ctdf.StopTimetable
	versions       []*ctdf.DatasetVersion
}

func (s *memoryStore) ListStopTimetables(_ context.Context, filter routes.StopTimetableFilter) ([]*ctdf.StopTimetable, error) {
	matches := []*ctdf.StopTimetable{}
	for _, stopTimetable := range s.stopTimetables {
		if filter.Dataset != "" && stopTimetable.DataSource.DatasetID != filter.Dataset {
			continue
		}
		if filter.Document != "" && stopTimetable.DocumentRef != filter.Document {
			continue
		}
		if filter.StopName != "" && !strings.Contains(strings.ToLower(stopTimetable.StopName), strings.ToLower(filter.StopName)) {
			continue
		}

		matches = append(matches, stopTimetable)
	}

	if filter.Limit > 0 && len(matches) > filter.Limit {
		matches = matches[:filter.Limit]
	}

	return matches, nil
}

func (s *memoryStore) GetStopTimetable(_ context.Context, identifier string) (*ctdf.StopTimetable, error) {
	for _, stopTimetable := range s.stopTimetables {
		if stopTimetable.PrimaryIdentifier == identifier {
			return stopTimetable, nil
		}
	}

	return nil, nil
}

func (s *memoryStore) ListDatasetVersions(_ context.Context, dataset string) ([]*ctdf.DatasetVersion, error) {
	versions := []*ctdf.DatasetVersion{}
	for _, version := range s.versions {
		if version.Dataset == dataset {
			versions = append(versions, version)
		}
	}

	return versions, nil
}

func newTestApp() *httptestApp {
	datasource := &ctdf.DataSourceReference{DatasetID: "ro-ratt-timetables", DocumentID: "33a.pdf"}

	store := &memoryStore{
		stopTimetables: []*ctdf.StopTimetable{
			{
				PrimaryIdentifier: "ro-ratt-timetables:33a:statia-piata-victoriei",
				DocumentRef:       "33a.pdf",
				StopName:          "Statia Piata Victoriei",
				Position:          0,
				Departures:        3,
				ScheduleClasses: []*ctdf.ScheduleClass{
					{Label: "ZILE LUCRĂTOARE", Hours: []*ctdf.HourDepartures{{Hour: 5, Minutes: []int{15, 45}}}},
					{Label: "ZILE NELUCRĂTOARE", Hours: []*ctdf.HourDepartures{{Hour: 6, Minutes: []int{5}}}},
				},
				DataSource: datasource,
			},
			{
				PrimaryIdentifier: "ro-ratt-timetables:33a:statia-catedrala",
				DocumentRef:       "33a.pdf",
				StopName:          "Statia Catedrala",
				Position:          1,
				DataSource:        datasource,
			},
		},
		versions: []*ctdf.DatasetVersion{
			{Dataset: "ro-ratt-timetables", Identifier: "33a.pdf", Hash: "abc", ImportedAt: time.Unix(1700000000, 0).UTC()},
		},
	}

	registered := []datasets.DataSet{
		{
			Identifier: "ro-ratt-timetables",
			Format:     datasets.DataSetFormatScheduleSheet,
			Provider:   datasets.Provider{Name: "RATT"},
			Source:     "http://www.ratt.ro/grafice/",
			Documents:  []string{"33a.pdf"},
		},
	}

	return &httptestApp{app: NewApp(store, registered)}
}

type httptestApp struct {
	app *fiber.App
}

func (a *httptestApp) get(t *testing.T, target string, into any) int {
	t.Helper()

	response, err := a.app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	if into != nil {
		require.NoError(t, json.Unmarshal(body, into), string(body))
	}

	return response.StatusCode
}

func TestVersion(t *testing.T) {
	var body map[string]string
	assert.Equal(t, http.StatusOK, newTestApp().get(t, "/core/version", &body))
	assert.Equal(t, routes.Version, body["version"])
}

func TestListStopTimetables(t *testing.T) {
	app := newTestApp()

	var errorBody map[string]string
	assert.Equal(t, http.StatusBadRequest, app.get(t, "/core/stop_timetables", &errorBody))
	assert.NotEmpty(t, errorBody["error"])

	assert.Equal(t, http.StatusBadRequest, app.get(t, "/core/stop_timetables?dataset=ro-ratt-timetables&limit=none", nil))

	var stopTimetables []map[string]any
	assert.Equal(t, http.StatusOK, app.get(t, "/core/stop_timetables?dataset=ro-ratt-timetables", &stopTimetables))
	require.Len(t, stopTimetables, 2)
	assert.Equal(t, "Statia Piata Victoriei", stopTimetables[0]["StopName"])
	assert.NotContains(t, stopTimetables[0], "Position")
	assert.NotContains(t, stopTimetables[0], "DataSource")

	assert.Equal(t, http.StatusOK, app.get(t, "/core/stop_timetables?stop=catedrala", &stopTimetables))
	require.Len(t, stopTimetables, 1)
	assert.Equal(t, "ro-ratt-timetables:33a:statia-catedrala", stopTimetables[0]["PrimaryIdentifier"])
}

func TestGetStopTimetable(t *testing.T) {
	app := newTestApp()

	var stopTimetable map[string]any
	assert.Equal(t, http.StatusOK, app.get(t, "/core/stop_timetables/ro-ratt-timetables:33a:statia-catedrala", &stopTimetable))
	assert.Equal(t, "Statia Catedrala", stopTimetable["StopName"])
	assert.Equal(t, float64(1), stopTimetable["Position"])
	assert.NotContains(t, stopTimetable, "DataSource")

	assert.Equal(t, http.StatusNotFound, app.get(t, "/core/stop_timetables/ro-ratt-timetables:33a:nowhere", nil))
}

func TestGetStopTimetableDepartures(t *testing.T) {
	app := newTestApp()
	identifier := "ro-ratt-timetables:33a:statia-piata-victoriei"

	var departures []map[string]string
	assert.Equal(t, http.StatusOK, app.get(t, "/core/stop_timetables/"+identifier+"/departures", &departures))
	assert.Equal(t, []map[string]string{
		{"ScheduleClass": "ZILE LUCRĂTOARE", "Time": "05:15"},
		{"ScheduleClass": "ZILE LUCRĂTOARE", "Time": "05:45"},
		{"ScheduleClass": "ZILE NELUCRĂTOARE", "Time": "06:05"},
	}, departures)

	assert.Equal(t, http.StatusOK, app.get(t, "/core/stop_timetables/"+identifier+"/departures?class=ZILE%20NELUCR%C4%82TOARE", &departures))
	assert.Len(t, departures, 1)

	assert.Equal(t, http.StatusNotFound, app.get(t, "/core/stop_timetables/"+identifier+"/departures?class=DUMINICA", nil))
}

func TestDatasets(t *testing.T) {
	app := newTestApp()

	var registered []map[string]any
	assert.Equal(t, http.StatusOK, app.get(t, "/core/datasets", &registered))
	require.Len(t, registered, 1)
	assert.Equal(t, "ro-ratt-timetables", registered[0]["Identifier"])

	var versions []map[string]any
	assert.Equal(t, http.StatusOK, app.get(t, "/core/datasets/ro-ratt-timetables/versions", &versions))
	require.Len(t, versions, 1)
	assert.Equal(t, "33a.pdf", versions[0]["Identifier"])

	assert.Equal(t, http.StatusNotFound, app.get(t, "/core/datasets/gb-bods", nil))
}

func TestMetrics(t *testing.T) {
	assert.Equal(t, http.StatusOK, newTestApp().get(t, "/metrics", nil))
}
