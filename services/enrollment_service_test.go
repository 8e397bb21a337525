package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/validation"
)

const playerOfferings = `[
	{"id_torneo_organizador":6,"torneo":{"id_torneo":2,"nombre_torneo":"Rapid"},"fecha_torneo":"2026-05-01","costo":10,"ciudad_nombre":"Lima"},
	{"id_torneo_organizador":5,"torneo":{"id_torneo":1,"nombre_torneo":"Blitz"},"organizador":{"id_organizador":4,"nombre_organizador":"Club Alfil"},"fecha_torneo":"2026-05-20","costo":15,"ciudad_nombre":"Lima"},
	{"id_torneo_organizador":7,"torneo":{"id_torneo":1,"nombre_torneo":"Blitz"},"fecha_torneo":"2026-05-12","costo":15,"ciudad_nombre":"Cusco"}
]`

func mountPlayer(t *testing.T, h *harness) models.Session {
	t.Helper()
	sess := h.loginAsPlayer()
	h.backend.handle(http.MethodGet, "/torneos-organizadores/", func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r, "tok-player")
		require.Equal(t, "3", r.URL.Query().Get("jugador_id"))
		reply(w, http.StatusOK, playerOfferings)
	})
	h.backend.handle(http.MethodGet, "/inscripciones/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `[{"id_inscripcion":40,"id_torneo_organizador":3,"nombre_torneo":"Classic","fecha_torneo":"2026-07-01","costo":30,"estado_pago":"pagado","medio_pago":"Efectivo"}]`)
	})

	dash, err := h.dashboards.MountPlayer(h.ctx, sess, h.ws)
	require.NoError(t, err)
	require.Len(t, dash.Available, 2)
	// прошедший турнир отфильтрован, остальные по дате
	assert.Equal(t, 7, dash.Available[0].ID)
	assert.Equal(t, 5, dash.Available[1].ID)
	assert.Equal(t, 1, dash.EnrolledCount)
	return sess
}

func validCard() *validation.CardForm {
	return &validation.CardForm{Number: "4111111111111111", Holder: "ANA LOPEZ", Month: "07", Year: "2028", CVV: "123"}
}

func TestEnrollmentService_CardSuccessReconcilesViews(t *testing.T) {
	h := newHarness(t)
	sess := mountPlayer(t, h)

	h.backend.handle(http.MethodPost, "/inscripciones/{id}", func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r, "tok-player")
		var in models.EnrollmentInput
		decodeBody(t, r, &in)
		assert.Equal(t, 5, in.OfferingID)
		assert.Equal(t, models.PaymentCard, in.Method)
		reply(w, http.StatusCreated, `{"id_inscripcion":77,"estado_pago":"pagado","monto":15,"medio_pago":"Tarjeta"}`)
	})

	res, err := h.enrollments.Enroll(h.ctx, sess, h.ws, EnrollRequest{OfferingID: 5, Method: "Tarjeta", Card: validCard()})
	require.NoError(t, err)
	assert.Equal(t, 77, res.Enrollment.ID)
	assert.Equal(t, 2, res.EnrolledCount)
	assert.Equal(t, "15", res.Payment.Amount.String())
	assert.EqualValues(t, 1, h.processor.calls.Load())

	views := h.ws.Views()
	require.Len(t, views.Available.Offerings, 1)
	assert.Equal(t, 7, views.Available.Offerings[0].ID)
	assert.Equal(t, 2, views.Available.EnrolledCount)

	require.Len(t, views.Enrollments.Enrollments, 2)
	added := views.Enrollments.Enrollments[0]
	assert.Equal(t, 77, added.ID)
	assert.Equal(t, "Blitz", added.TournamentName)
	assert.Equal(t, "Club Alfil", added.OrganizerName)
	assert.False(t, h.ws.Pending())
}

func TestEnrollmentService_AlreadyEnrolledKeepsViews(t *testing.T) {
	h := newHarness(t)
	sess := mountPlayer(t, h)

	h.backend.handle(http.MethodPost, "/inscripciones/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusConflict, `{"detail":"Ya estás inscrito en este torneo"}`)
	})

	before := h.ws.Views()
	_, err := h.enrollments.Enroll(h.ctx, sess, h.ws, EnrollRequest{OfferingID: 5, Method: "Efectivo"})
	require.ErrorIs(t, err, ErrAlreadyEnrolled)

	after := h.ws.Views()
	assert.Equal(t, before.Available.Offerings, after.Available.Offerings)
	assert.Equal(t, 1, after.Available.EnrolledCount)
	assert.Len(t, after.Enrollments.Enrollments, 1)
	assert.False(t, h.ws.Pending())
}

func TestEnrollmentService_NotEligible(t *testing.T) {
	h := newHarness(t)
	sess := mountPlayer(t, h)

	h.backend.handle(http.MethodPost, "/inscripciones/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusBadRequest, `{"detail":"El torneo está lleno"}`)
	})

	_, err := h.enrollments.Enroll(h.ctx, sess, h.ws, EnrollRequest{OfferingID: 5, Method: "Transferencia"})
	require.ErrorIs(t, err, ErrNotEligible)
	assert.Contains(t, err.Error(), "El torneo está lleno")
}

func TestEnrollmentService_InvalidCardNeverReachesProcessor(t *testing.T) {
	h := newHarness(t)
	sess := mountPlayer(t, h)

	card := validCard()
	card.Number = "4111111111111"
	_, err := h.enrollments.Enroll(h.ctx, sess, h.ws, EnrollRequest{OfferingID: 5, Method: "Tarjeta", Card: card})
	v, ok := validation.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "numero", v.Field)

	assert.Zero(t, h.processor.calls.Load())
	assert.Zero(t, h.backend.count("POST /inscripciones/3"))
	assert.Len(t, h.ws.Views().Available.Offerings, 2)
}

func TestEnrollmentService_CardMethodWithoutCard(t *testing.T) {
	h := newHarness(t)
	sess := mountPlayer(t, h)

	_, err := h.enrollments.Enroll(h.ctx, sess, h.ws, EnrollRequest{OfferingID: 5, Method: "card"})
	v, ok := validation.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "tarjeta", v.Field)
	assert.Zero(t, h.processor.calls.Load())
}

func TestEnrollmentService_UnknownMethodAndOffering(t *testing.T) {
	h := newHarness(t)
	sess := mountPlayer(t, h)

	_, err := h.enrollments.Enroll(h.ctx, sess, h.ws, EnrollRequest{OfferingID: 5, Method: "bitcoin"})
	v, ok := validation.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "medio_pago", v.Field)

	// прошедший турнир не в списке доступных
	_, err = h.enrollments.Enroll(h.ctx, sess, h.ws, EnrollRequest{OfferingID: 6, Method: "Efectivo"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnrollmentService_PendingRejectsSecondSubmit(t *testing.T) {
	h := newHarness(t)
	sess := mountPlayer(t, h)

	done, err := h.ws.begin()
	require.NoError(t, err)

	_, err = h.enrollments.Enroll(h.ctx, sess, h.ws, EnrollRequest{OfferingID: 5, Method: "Efectivo"})
	assert.ErrorIs(t, err, ErrOperationPending)
	assert.Zero(t, h.processor.calls.Load())

	done()
	assert.False(t, h.ws.Pending())
}

func TestEnrollmentService_ListAndCancel(t *testing.T) {
	h := newHarness(t)
	sess := h.loginAsPlayer()

	h.backend.handle(http.MethodGet, "/inscripciones/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `[
			{"id_inscripcion":41,"id_torneo_organizador":3,"nombre_torneo":"Classic","fecha_torneo":"2026-07-01","costo":30},
			{"id_inscripcion":40,"id_torneo_organizador":2,"nombre_torneo":"Blitz","fecha_torneo":"2026-06-01","costo":10}
		]`)
	})
	h.backend.handle(http.MethodDelete, "/inscripciones/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	list, err := h.enrollments.List(h.ctx, sess, h.ws)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// второй вызов берёт список из workspace
	_, err = h.enrollments.List(h.ctx, sess, h.ws)
	require.NoError(t, err)
	assert.Equal(t, 1, h.backend.count("GET /inscripciones/3"))

	require.NoError(t, h.enrollments.Cancel(h.ctx, sess, h.ws, 40))
	list, err = h.enrollments.List(h.ctx, sess, h.ws)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 41, list[0].ID)
	assert.Equal(t, 1, h.backend.count("DELETE /inscripciones/40"))
}

func TestEnrollmentService_OrganizerCannotEnroll(t *testing.T) {
	h := newHarness(t)
	sess := h.loginAsOrganizer()

	_, err := h.enrollments.Enroll(h.ctx, sess, h.ws, EnrollRequest{OfferingID: 5, Method: "Efectivo"})
	assert.ErrorIs(t, err, ErrForbiddenRole)
}
