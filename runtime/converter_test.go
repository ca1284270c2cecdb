package runtime

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// Test types for conversion
type CompanyInput struct {
	Name   string `json:"companyName"`
	Count  int    `json:"targetCount"`
	Domain string `json:"domain"`
}

type StructWithDuration struct {
	Timeout  time.Duration `json:"timeout"`
	Interval time.Duration `json:"interval"`
}

type NestedInput struct {
	Prompt string       `json:"researchPrompt"`
	Extra  CompanyInput `json:"additionalFields"`
	Save   *bool        `json:"saveToDatabase"`
	Days   *int         `json:"lookbackDays"`
}

// tagList decodes itself from either "a,b" or a list of strings.
type tagList []string

func (l *tagList) DecodeInput(raw any) error {
	switch v := raw.(type) {
	case string:
		*l = strings.Split(v, ",")
	case []any:
		for _, item := range v {
			*l = append(*l, fmt.Sprint(item))
		}
	default:
		return fmt.Errorf("unsupported tag list %T", raw)
	}
	return nil
}

type StructWithDecoder struct {
	Tags tagList `json:"tags"`
}

type StructWithTags struct {
	PublicName  string `json:"public_name"`
	PrivateName string `json:"-"` // Should be ignored
	OmitEmpty   string `json:"omit_empty,omitempty"`
}

func TestMapToStruct_BasicTypes(t *testing.T) {
	input := map[string]any{
		"companyName": "Snowflake",
		"targetCount": 10,
		"domain":      "snowflake.com",
	}

	var result CompanyInput
	if err := mapToStruct(input, &result); err != nil {
		t.Fatalf("mapToStruct failed: %v", err)
	}

	if result.Name != "Snowflake" {
		t.Errorf("Expected name 'Snowflake', got '%s'", result.Name)
	}
	if result.Count != 10 {
		t.Errorf("Expected count 10, got %d", result.Count)
	}
	if result.Domain != "snowflake.com" {
		t.Errorf("Expected domain 'snowflake.com', got '%s'", result.Domain)
	}
}

func TestMapToStruct_TypeCoercion(t *testing.T) {
	input := map[string]any{
		"companyName": 42,   // number to string
		"targetCount": "25", // string to int
	}

	var result CompanyInput
	if err := mapToStruct(input, &result); err != nil {
		t.Fatalf("mapToStruct failed: %v", err)
	}

	if result.Name != "42" {
		t.Errorf("Expected name '42', got '%s'", result.Name)
	}
	if result.Count != 25 {
		t.Errorf("Expected count 25, got %d", result.Count)
	}
}

func TestMapToStruct_Duration(t *testing.T) {
	input := map[string]any{
		"timeout":  "30s",
		"interval": "5m",
	}

	var result StructWithDuration
	if err := mapToStruct(input, &result); err != nil {
		t.Fatalf("mapToStruct failed: %v", err)
	}

	if result.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", result.Timeout)
	}
	if result.Interval != 5*time.Minute {
		t.Errorf("Expected interval 5m, got %v", result.Interval)
	}
}

func TestMapToStruct_NestedAndOptional(t *testing.T) {
	t.Run("present values", func(t *testing.T) {
		input := map[string]any{
			"researchPrompt": "Find funding news",
			"additionalFields": map[string]any{
				"domain": "acme.io",
			},
			"saveToDatabase": false,
			"lookbackDays":   float64(0),
		}

		var result NestedInput
		if err := mapToStruct(input, &result); err != nil {
			t.Fatalf("mapToStruct failed: %v", err)
		}

		if result.Extra.Domain != "acme.io" {
			t.Errorf("Expected nested domain 'acme.io', got '%s'", result.Extra.Domain)
		}
		if result.Save == nil || *result.Save != false {
			t.Errorf("Expected explicit false to be kept, got %v", result.Save)
		}
		if result.Days == nil || *result.Days != 0 {
			t.Errorf("Expected explicit 0 to be kept, got %v", result.Days)
		}
	})

	t.Run("absent values stay nil", func(t *testing.T) {
		input := map[string]any{
			"researchPrompt": "x",
			"lookbackDays":   nil,
		}

		var result NestedInput
		if err := mapToStruct(input, &result); err != nil {
			t.Fatalf("mapToStruct failed: %v", err)
		}

		if result.Save != nil {
			t.Errorf("Expected nil Save, got %v", *result.Save)
		}
		if result.Days != nil {
			t.Errorf("Expected nil Days for null value, got %v", *result.Days)
		}
	})
}

func TestMapToStruct_InputDecoder(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    []string
		wantErr bool
	}{
		{"comma string", "funding,hiring", []string{"funding", "hiring"}, false},
		{"list", []any{"award", 7}, []string{"award", "7"}, false},
		{"unsupported", map[string]any{"a": 1}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result StructWithDecoder
			err := mapToStruct(map[string]any{"tags": tt.raw}, &result)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected decoder error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("mapToStruct failed: %v", err)
			}
			if strings.Join(result.Tags, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Expected tags %v, got %v", tt.want, result.Tags)
			}
		})
	}
}

func TestMapToStructFromYAML_UsesYAMLTags(t *testing.T) {
	type pluginConfig struct {
		APIKey  string        `yaml:"api_key" json:"apiKey"`
		Timeout time.Duration `yaml:"timeout"`
	}

	var result pluginConfig
	err := mapToStructFromYAML(map[string]any{
		"api_key": "sk_test",
		"apiKey":  "ignored",
		"timeout": "2s",
	}, &result)
	if err != nil {
		t.Fatalf("mapToStructFromYAML failed: %v", err)
	}

	if result.APIKey != "sk_test" {
		t.Errorf("Expected yaml-tagged key, got '%s'", result.APIKey)
	}
	if result.Timeout != 2*time.Second {
		t.Errorf("Expected timeout 2s, got %v", result.Timeout)
	}
}

func TestStructToMap_BasicTypes(t *testing.T) {
	input := CompanyInput{Name: "Acme", Count: 5}

	result, err := structToMap(input)
	if err != nil {
		t.Fatalf("structToMap failed: %v", err)
	}

	if result["companyName"] != "Acme" {
		t.Errorf("Expected companyName 'Acme', got '%v'", result["companyName"])
	}
	// JSON unmarshaling converts numbers to float64
	if result["targetCount"] != float64(5) {
		t.Errorf("Expected targetCount 5, got '%v'", result["targetCount"])
	}
}

func TestStructToMap_NestedStruct(t *testing.T) {
	input := NestedInput{
		Prompt: "p",
		Extra:  CompanyInput{Name: "Acme"},
	}

	result, err := structToMap(input)
	if err != nil {
		t.Fatalf("structToMap failed: %v", err)
	}

	extra, ok := result["additionalFields"].(map[string]any)
	if !ok {
		t.Fatalf("Expected additionalFields to be a map, got %T", result["additionalFields"])
	}
	if extra["companyName"] != "Acme" {
		t.Errorf("Expected nested companyName 'Acme', got '%v'", extra["companyName"])
	}
	if result["saveToDatabase"] != nil {
		t.Errorf("Expected nil pointer to encode as null, got %v", result["saveToDatabase"])
	}
}

func TestMapToStruct_InvalidInput(t *testing.T) {
	input := map[string]any{
		"targetCount": "not-a-number",
	}

	var result CompanyInput
	if err := mapToStruct(input, &result); err == nil {
		t.Error("Expected error for invalid input, got nil")
	}
}

func TestStructToMap_JSONTags(t *testing.T) {
	input := StructWithTags{
		PublicName:  "public",
		PrivateName: "private",
	}

	result, err := structToMap(input)
	if err != nil {
		t.Fatalf("structToMap failed: %v", err)
	}

	if result["public_name"] != "public" {
		t.Errorf("Expected public_name 'public', got '%v'", result["public_name"])
	}
	if _, exists := result["PrivateName"]; exists {
		t.Error("PrivateName should not be in map (json:\"-\" tag)")
	}
	if _, exists := result["omit_empty"]; exists {
		t.Error("omit_empty should not be in map when empty")
	}
}
