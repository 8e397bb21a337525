package services

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/chess-portal/models"
	"github.com/Dosada05/chess-portal/reconcile"
	"github.com/Dosada05/chess-portal/validation"
)

func TestAuthService_LoginStoresSession(t *testing.T) {
	h := newHarness(t)

	h.backend.handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		decodeBody(t, r, &creds)
		assert.Equal(t, "ana@example.com", creds.Email)
		assert.Equal(t, "secret", creds.Password)
		reply(w, http.StatusOK, `{"access_token":"tok-1","usuario":{"id_usuario":7,"email":"ana@example.com","tipo_usuario":"jugador","activo":true,"id_jugador":3,"nombre":"Ana","apellido":"Lopez"}}`)
	})

	sess, err := h.auth.Login(h.ctx, h.store, testSID, validation.LoginForm{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)

	stored := h.store.Get(h.ctx)
	player, ok := stored.Identity.(*models.Player)
	require.True(t, ok)
	assert.Equal(t, 3, player.ID)
	assert.Equal(t, "Ana Lopez", player.DisplayName())
	assert.True(t, h.store.IsAuthenticated(h.ctx))
}

func TestAuthService_LoginFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"bad credentials", http.StatusUnauthorized, ErrInvalidCredentials},
		{"disabled account", http.StatusForbidden, ErrAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.backend.handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request) {
				reply(w, tt.status, `{"detail":"nope"}`)
			})

			_, err := h.auth.Login(h.ctx, h.store, testSID, validation.LoginForm{Email: "ana@example.com", Password: "x"})
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, h.store.IsAuthenticated(h.ctx))
		})
	}
}

func TestAuthService_LoginValidatesBeforeCalling(t *testing.T) {
	h := newHarness(t)

	_, err := h.auth.Login(h.ctx, h.store, testSID, validation.LoginForm{Email: "ana@example.com"})
	v, ok := validation.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "contraseña", v.Field)
	assert.Zero(t, h.backend.count("POST /auth/login"))
}

func playerLoginReply(userID, playerID int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, fmt.Sprintf(`{"access_token":"tok-%d","usuario":{"id_usuario":%d,"email":"p%d@example.com","tipo_usuario":"jugador","activo":true,"id_jugador":%d,"nombre":"P","apellido":"X"}}`,
			playerID, userID, playerID, playerID))
	}
}

func TestAuthService_LoginAsAnotherUserDropsViews(t *testing.T) {
	h := newHarness(t)
	h.loginAsPlayer()
	available := reconcile.NewAvailableView(nil, today(clock), 3)
	h.ws.update(func(v *Views) { v.Available = &available })
	h.ws.Selector(FormRegisterPlayer)

	h.backend.handle(http.MethodPost, "/auth/login", playerLoginReply(70, 99))

	_, err := h.auth.Login(h.ctx, h.store, testSID, validation.LoginForm{Email: "p99@example.com", Password: "secret"})
	require.NoError(t, err)

	fresh := h.workspaces.Get(testSID)
	assert.NotSame(t, h.ws, fresh)
	assert.Nil(t, fresh.Views().Available)
	assert.Equal(t, 99, h.store.Get(h.ctx).Identity.RoleID())
}

func TestAuthService_LoginAsSameUserKeepsViews(t *testing.T) {
	h := newHarness(t)
	h.loginAsPlayer()
	available := reconcile.NewAvailableView(nil, today(clock), 3)
	h.ws.update(func(v *Views) { v.Available = &available })

	h.backend.handle(http.MethodPost, "/auth/login", playerLoginReply(7, 3))

	_, err := h.auth.Login(h.ctx, h.store, testSID, validation.LoginForm{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)

	kept := h.workspaces.Get(testSID)
	assert.Same(t, h.ws, kept)
	require.NotNil(t, kept.Views().Available)
	assert.Equal(t, 3, kept.Views().Available.EnrolledCount)
}

func TestAuthService_Logout(t *testing.T) {
	h := newHarness(t)
	h.loginAsPlayer()
	require.Equal(t, 1, h.workspaces.Len())

	require.NoError(t, h.auth.Logout(h.ctx, h.store, testSID))
	assert.False(t, h.store.IsAuthenticated(h.ctx))
	assert.Zero(t, h.workspaces.Len())
}

func playerForm() validation.PlayerRegistrationForm {
	return validation.PlayerRegistrationForm{
		Name:            "Ana",
		Surname:         "Lopez",
		Phone:           "999111222",
		Email:           "ana@example.com",
		Password:        "secret1",
		PasswordConfirm: "secret1",
		AddressLine:     "Av. Arequipa 123",
	}
}

func TestAuthService_RegisterPlayerPasswordMismatch(t *testing.T) {
	h := newHarness(t)

	form := playerForm()
	form.PasswordConfirm = "other"
	err := h.auth.RegisterPlayer(h.ctx, h.ws, form)

	v, ok := validation.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "passwords do not match", v.Message)
	assert.Zero(t, h.backend.count("POST /direcciones"))
	assert.Zero(t, h.backend.count("POST /jugadores/registrar"))
}

func TestAuthService_RegisterPlayerNeedsResolvedCity(t *testing.T) {
	h := newHarness(t)

	_, err := h.forms.SelectCountry(h.ctx, h.ws, FormRegisterPlayer, 1, true)
	require.NoError(t, err)

	err = h.auth.RegisterPlayer(h.ctx, h.ws, playerForm())
	v, ok := validation.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "ciudad", v.Field)
}

func TestAuthService_RegisterPlayer(t *testing.T) {
	h := newHarness(t)

	h.backend.handle(http.MethodPost, "/direcciones", func(w http.ResponseWriter, r *http.Request) {
		var in models.AddressInput
		decodeBody(t, r, &in)
		assert.Equal(t, 11, in.CityID)
		reply(w, http.StatusCreated, `{"id_direccion":55,"direccion":"Av. Arequipa 123","fk_ciudad_id":11}`)
	})
	h.backend.handle(http.MethodPost, "/jugadores/registrar", func(w http.ResponseWriter, r *http.Request) {
		var in models.PlayerRegistration
		decodeBody(t, r, &in)
		assert.Equal(t, 55, in.AddressID)
		assert.Equal(t, "ana@example.com", in.Email)
		reply(w, http.StatusCreated, `{"mensaje":"ok"}`)
	})

	_, err := h.forms.SelectCountry(h.ctx, h.ws, FormRegisterPlayer, 1, true)
	require.NoError(t, err)
	_, err = h.forms.SelectCity(h.ws, FormRegisterPlayer, 11)
	require.NoError(t, err)

	require.NoError(t, h.auth.RegisterPlayer(h.ctx, h.ws, playerForm()))
	assert.False(t, h.ws.Pending())
	assert.Zero(t, h.ws.Selector(FormRegisterPlayer).State().CityID)
}

func TestAuthService_RegisterOrganizerEmailTaken(t *testing.T) {
	h := newHarness(t)

	h.backend.handle(http.MethodPost, "/direcciones", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusCreated, `{"id_direccion":56,"fk_ciudad_id":20}`)
	})
	h.backend.handle(http.MethodPost, "/auth/register-organizador", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusConflict, `{"detail":"El correo ya está registrado"}`)
	})

	_, err := h.forms.SelectCountry(h.ctx, h.ws, FormRegisterOrganizer, 2, true)
	require.NoError(t, err)
	_, err = h.forms.SelectCity(h.ws, FormRegisterOrganizer, 20)
	require.NoError(t, err)

	err = h.auth.RegisterOrganizer(h.ctx, h.ws, validation.OrganizerRegistrationForm{
		OrgName:         "Club Alfil",
		Email:           "club@example.com",
		Password:        "secret1",
		PasswordConfirm: "secret1",
		AddressLine:     "Calle 1",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	// форма не сбрасывается при ошибке
	assert.Equal(t, 20, h.ws.Selector(FormRegisterOrganizer).State().CityID)
}
