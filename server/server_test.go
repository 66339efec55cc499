package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adammck/mech/math3d"
	"github.com/adammck/mech/replica"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func publish(t *testing.T, reg *replica.Registry, id uuid.UUID, v uint64) {
	data, err := replica.Encode(&replica.Snapshot{
		MechID:  id,
		Version: v,
		Pose:    math3d.MakePose(math3d.Vector3{Y: 2}),
		Health:  80,
	})
	require.NoError(t, err)
	require.NoError(t, reg.Apply(data))
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestListMechs(t *testing.T) {
	reg := replica.NewRegistry()
	publish(t, reg, uuid.New(), 1)
	publish(t, reg, uuid.New(), 1)

	w := get(New(reg, nil), "/mechs")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Mechs []replica.Snapshot `json:"mechs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Mechs, 2)
}

func TestGetMech(t *testing.T) {
	reg := replica.NewRegistry()
	id := uuid.New()
	publish(t, reg, id, 3)
	r := New(reg, nil)

	w := get(r, "/mechs/"+id.String())
	require.Equal(t, http.StatusOK, w.Code)

	var s replica.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, id, s.MechID)
	assert.Equal(t, uint64(3), s.Version)
	assert.Equal(t, 80.0, s.Health)

	assert.Equal(t, http.StatusNotFound, get(r, "/mechs/"+uuid.NewString()).Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/mechs/nope").Code)
}

func TestGetSnapshot(t *testing.T) {
	reg := replica.NewRegistry()
	id := uuid.New()
	publish(t, reg, id, 9)

	w := get(New(reg, nil), fmt.Sprintf("/mechs/%s/snapshot", id))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, msgpackType, w.Header().Get("Content-Type"))

	s, err := replica.Decode(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint64(9), s.Version)
}

func TestPostDamage(t *testing.T) {
	reg := replica.NewRegistry()
	owned := uuid.New()
	var got float64

	r := New(reg, func(id uuid.UUID, amount float64) error {
		if id != owned {
			return ErrUnknownMech
		}

		got += amount
		return nil
	})

	post := func(id uuid.UUID, body string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/mechs/%s/damage", id), strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusAccepted, post(owned, `{"amount": 12.5}`))
	assert.Equal(t, 12.5, got)

	assert.Equal(t, http.StatusBadRequest, post(owned, `{"amount": -1}`))
	assert.Equal(t, http.StatusBadRequest, post(owned, `{}`))
	assert.Equal(t, http.StatusNotFound, post(uuid.New(), `{"amount": 1}`))
	assert.Equal(t, 12.5, got)
}

func TestDamageDisabled(t *testing.T) {
	r := New(replica.NewRegistry(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/mechs/%s/damage", uuid.New()), strings.NewReader(`{"amount": 1}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
