// Package scoring ranks resource attributes by how likely each one is
// to hold a usable import identifier.
package scoring

import (
	"sort"
	"strings"

	"github.com/plancraft/tgimport/internal/schema"
)

// Provider selects a scoring strategy. The set is closed; anything not
// recognized scores with the generic strategy.
type Provider int

const (
	Generic Provider = iota
	GCP
	Azure
	AWS
)

func (p Provider) String() string {
	switch p {
	case GCP:
		return "gcp"
	case Azure:
		return "azure"
	case AWS:
		return "aws"
	default:
		return "generic"
	}
}

// Strategy scores a single attribute for one provider family. Higher
// is better; results are clamped to [0,100].
type Strategy interface {
	Score(name string, meta schema.AttributeMetadata, resourceType string) float64
	Name() string
	Provider() Provider
}

// ForResourceType picks the strategy for a resource type by its
// prefix. AWS types use the generic strategy plus the override table.
func ForResourceType(resourceType string) Strategy {
	switch {
	case strings.HasPrefix(resourceType, "google_"), strings.HasPrefix(resourceType, "google-beta_"):
		return gcpStrategy{}
	case strings.HasPrefix(resourceType, "azurerm_"), strings.HasPrefix(resourceType, "azuread_"):
		return azureStrategy{}
	default:
		return genericStrategy{}
	}
}

// DetectProvider classifies a resource type into a provider family.
func DetectProvider(resourceType string) Provider {
	switch {
	case strings.HasPrefix(resourceType, "google_"), strings.HasPrefix(resourceType, "google-beta_"):
		return GCP
	case strings.HasPrefix(resourceType, "azurerm_"), strings.HasPrefix(resourceType, "azuread_"):
		return Azure
	case strings.HasPrefix(resourceType, "aws_"):
		return AWS
	default:
		return Generic
	}
}

// metadataBonus layers schema facts on top of the name-pattern base.
func metadataBonus(meta schema.AttributeMetadata) float64 {
	bonus := 0.0
	if meta.Required {
		bonus += 15
	}
	if meta.Computed {
		bonus += 10
	}
	if meta.IsString() {
		bonus += 5
	}
	desc := strings.ToLower(meta.Description)
	if strings.Contains(desc, "unique") || strings.Contains(desc, "identifier") {
		bonus += 8
	} else if strings.Contains(desc, "id") || strings.Contains(desc, "name") {
		bonus += 5
	}
	return bonus
}

// overrides adjusts scores for resource types whose import ID is known
// to differ from what the name patterns suggest.
func overrides(resourceType, name string) float64 {
	switch resourceType {
	case "google_artifact_registry_repository":
		switch name {
		case "repository_id":
			return 20
		case "name":
			return -10
		}
	case "azurerm_storage_account":
		if name == "name" {
			return 15
		}
	case "aws_s3_bucket":
		if name == "bucket" {
			return 20
		}
	case "aws_lambda_function":
		if name == "function_name" {
			return 15
		}
	}
	if strings.HasPrefix(resourceType, "aws_") && name == "arn" {
		return 10
	}
	return 0
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

type gcpStrategy struct{}

func (gcpStrategy) Name() string       { return "gcp" }
func (gcpStrategy) Provider() Provider { return GCP }

func (gcpStrategy) Score(name string, meta schema.AttributeMetadata, resourceType string) float64 {
	var base float64
	switch {
	case name == "self_link":
		base = 75
	case name == "id":
		base = 70
	case name == "name":
		base = 65
	case name == "repository_id":
		base = 65
	case strings.HasSuffix(name, "_id"):
		base = 60
	case strings.Contains(name, "identifier"):
		base = 58
	case strings.HasSuffix(name, "_name"):
		base = 55
	case name == "bucket" || name == "project":
		base = 50
	case name == "location" || name == "region" || name == "zone":
		base = 45
	case strings.Contains(name, "url") || strings.Contains(name, "link"):
		base = 40
	default:
		base = 30
	}
	return clamp(base + metadataBonus(meta) + overrides(resourceType, name))
}

type azureStrategy struct{}

func (azureStrategy) Name() string       { return "azure" }
func (azureStrategy) Provider() Provider { return Azure }

func (azureStrategy) Score(name string, meta schema.AttributeMetadata, resourceType string) float64 {
	var base float64
	switch {
	case name == "resource_id":
		base = 95
	case name == "id":
		base = 90
	case name == "name":
		base = 85
	case name == "subscription_id":
		base = 60
	case name == "resource_group_name":
		base = 70
	case strings.HasSuffix(name, "_id"):
		base = 80
	case name == "fqdn":
		base = 78
	case strings.HasSuffix(name, "_name"):
		base = 75
	case name == "location":
		base = 65
	default:
		base = 50
	}
	return clamp(base + metadataBonus(meta) + overrides(resourceType, name))
}

type genericStrategy struct{}

func (genericStrategy) Name() string       { return "generic" }
func (genericStrategy) Provider() Provider { return Generic }

func (genericStrategy) Score(name string, meta schema.AttributeMetadata, resourceType string) float64 {
	var base float64
	switch {
	case name == "id":
		base = 90
	case name == "name":
		base = 85
	case strings.HasSuffix(name, "_id"):
		base = 80
	case strings.Contains(name, "identifier"):
		base = 78
	case strings.HasSuffix(name, "_name"):
		base = 75
	case name == "self" || strings.Contains(name, "link") || strings.Contains(name, "url"):
		base = 70
	case name == "region" || name == "location" || name == "zone":
		base = 60
	default:
		base = 50
	}
	return clamp(base + metadataBonus(meta) + overrides(resourceType, name))
}

// Candidate is one scored attribute.
type Candidate struct {
	Name  string
	Score float64
}

// Rank scores every attribute with the strategy for the resource type
// and returns candidates best first. Ties order by attribute name so
// equal inputs always rank identically.
func Rank(resourceType string, attrs map[string]schema.AttributeMetadata) []Candidate {
	strat := ForResourceType(resourceType)
	out := make([]Candidate, 0, len(attrs))
	for name, meta := range attrs {
		out = append(out, Candidate{Name: name, Score: strat.Score(name, meta, resourceType)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}
