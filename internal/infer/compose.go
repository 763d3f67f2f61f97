package infer

import (
	"fmt"
	"strings"

	"github.com/plancraft/tgimport/internal/plan"
)

// gcpCollections maps GCP resource types to the collection segment of
// their canonical import path. Only types with a known segment get
// composed; everything else imports by the raw attribute value.
var gcpCollections = map[string]string{
	"google_artifact_registry_repository": "repositories",
}

// composeID turns the selected attribute value into the final import
// ID. GCP types with a known collection get the full
// projects/<p>/locations/<l>/<collection>/<value> path. Project and
// location come from the caller-supplied context first, then from the
// planned values; values that already look like full paths pass
// through untouched.
func composeID(res plan.Resource, value, project, location string) string {
	collection, ok := gcpCollections[res.Type]
	if !ok {
		return value
	}
	if strings.HasPrefix(value, "projects/") {
		return value
	}
	if project == "" {
		project, _ = res.StringValue("project")
	}
	if location == "" {
		location, _ = res.StringValue("location")
	}
	if project == "" || location == "" {
		return value
	}
	return fmt.Sprintf("projects/%s/locations/%s/%s/%s", project, location, collection, value)
}
