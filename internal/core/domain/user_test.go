package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestIDUnmarshal(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":1,"b":"cam-7","c":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != "1" || v.B != "cam-7" || v.C != "" {
		t.Fatalf("unexpected ids: %+v", v)
	}
	if err := json.Unmarshal([]byte(`{"a":true}`), &v); err == nil {
		t.Fatalf("expected error for boolean id")
	}
}

func TestLoginResultDecodesBackendShape(t *testing.T) {
	body := `{"success":true,"user":{"id":1,"username":"admin","role":"admin","name":"Admin"},"access_token":"t1","refresh_token":"r1"}`
	var res LoginResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.AccessToken != "t1" || res.RefreshToken != "r1" {
		t.Fatalf("unexpected credentials: %+v", res.Credentials)
	}
	if res.User.ID != IDFromInt(1) || res.User.Role != RoleAdmin || res.User.DisplayName() != "Admin" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	cases := map[int]error{
		401: ErrUnauthorized,
		403: ErrForbidden,
		404: ErrNotFound,
		422: ErrValidation,
		503: ErrBackendUnavailable,
	}
	for status, want := range cases {
		err := error(&APIError{Status: status, Message: "x"})
		if !errors.Is(err, want) {
			t.Fatalf("status %d should unwrap to %v", status, want)
		}
	}
	if errors.Unwrap(&APIError{Status: 409}) != nil {
		t.Fatalf("409 should not map to a sentinel")
	}
}
