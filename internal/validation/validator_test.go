// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package validation

import (
	"strings"
	"testing"
)

type interactionRequest struct {
	UserID    string `json:"user_id" validate:"required,identifier"`
	ProductID string `json:"product_id" validate:"required,identifier"`
	Action    string `json:"action" validate:"required,action"`
}

type listRequest struct {
	Limit int    `query:"limit" validate:"min=0,max=100"`
	Mode  string `query:"mode" validate:"omitempty,oneof=personalized discovery"`
}

type relatedRequest struct {
	ProductID string `path:"productID" validate:"required,identifier"`
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator should return the same instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  interface{}
	}{
		{"known action", &interactionRequest{UserID: "u1", ProductID: "p1", Action: "purchase"}},
		{"unknown action", &interactionRequest{UserID: "u1", ProductID: "64f0c1ab", Action: "wishlist"}},
		{"hyphenated action", &interactionRequest{UserID: "user@example.com", ProductID: "sku-1", Action: "quick-view"}},
		{"list defaults", &listRequest{}},
		{"list full", &listRequest{Limit: 100, Mode: "discovery"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateStruct(tt.req); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       interface{}
		wantField string
		wantTag   string
	}{
		{"missing user", &interactionRequest{ProductID: "p1", Action: "view"}, "user_id", "required"},
		{"whitespace product", &interactionRequest{UserID: "u1", ProductID: "p 1", Action: "view"}, "product_id", "identifier"},
		{"uppercase action", &interactionRequest{UserID: "u1", ProductID: "p1", Action: "VIEW"}, "action", "action"},
		{"limit too large", &listRequest{Limit: 101}, "limit", "max"},
		{"negative limit", &listRequest{Limit: -1}, "limit", "min"},
		{"bad mode", &listRequest{Mode: "random"}, "mode", "oneof"},
		{"path parameter", &relatedRequest{ProductID: "p 1"}, "productID", "identifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateStruct(tt.req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&interactionRequest{ProductID: "p1", Action: "view"})
	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "user_id is required" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "user_id" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&interactionRequest{})
	apiErr := err.ToAPIError()

	for _, field := range []string{"user_id", "product_id", "action"} {
		if !strings.Contains(apiErr.Message, field) {
			t.Errorf("message %q should mention %s", apiErr.Message, field)
		}
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Errorf("Details[fields] = %v, want 3 entries", apiErr.Details["fields"])
	}
}

func TestIsIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"p1", true},
		{"64f0c1ab9e", true},
		{"ünïcode", true},
		{"", false},
		{"has space", false},
		{"tab\there", false},
		{"bell\x07", false},
		{strings.Repeat("x", 128), true},
		{strings.Repeat("x", 129), false},
	}

	for _, tt := range tests {
		if got := IsIdentifier(tt.in); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsActionName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"view", true},
		{"add_to_wishlist", true},
		{"quick-view", true},
		{"v2", true},
		{"", false},
		{"View", false},
		{"drop table", false},
		{strings.Repeat("a", 33), false},
	}

	for _, tt := range tests {
		if got := IsActionName(tt.in); got != tt.want {
			t.Errorf("IsActionName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
