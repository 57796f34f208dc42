package reports

import "github.com/JaimeStill/lifeline/pkg/openapi"

// Schemas returns the OpenAPI component schemas for report payloads.
func Schemas() map[string]*openapi.Schema {
	minLat, maxLat := openapi.Range(-90, 90)
	minLng, maxLng := openapi.Range(-180, 180)

	meta := &openapi.Schema{
		Type:                 "object",
		Description:          "Arbitrary client metadata",
		AdditionalProperties: true,
	}

	return map[string]*openapi.Schema{
		"Report": {
			Type:     "object",
			Required: []string{"id", "phone", "lat", "lng", "message", "ts", "meta", "status", "created_at"},
			Properties: map[string]*openapi.Schema{
				"id":      {Type: "string", Format: "uuid"},
				"phone":   {Type: "string", Example: "0901234567"},
				"lat":     {Type: "number", Minimum: minLat, Maximum: maxLat},
				"lng":     {Type: "number", Minimum: minLng, Maximum: maxLng},
				"message": {Type: "string"},
				"ts":      {Type: openapi.Nullable("string"), Description: "Client-supplied timestamp, stored verbatim"},
				"meta": {
					Type:                 "object",
					AdditionalProperties: true,
					Description:          "Client metadata plus " + MetaUrgencyConfidence,
				},
				"status":     {Type: "string", Enum: []any{StatusPending, StatusProcessing, StatusDone, StatusHolding}},
				"urgency":    {Type: "string", Enum: []any{UrgencyLow, UrgencyHigh, UrgencyCritical}},
				"created_at": {Type: "string", Format: "date-time"},
				"updated_at": {Type: "string", Format: "date-time"},
			},
		},
		"ReportResponse": {
			Type:     "object",
			Required: []string{"ok", "report"},
			Properties: map[string]*openapi.Schema{
				"ok":     {Type: "boolean", Example: true},
				"report": openapi.SchemaRef("Report"),
			},
		},
		"ReportListResponse": {
			Type:     "object",
			Required: []string{"ok", "reports"},
			Properties: map[string]*openapi.Schema{
				"ok":      {Type: "boolean", Example: true},
				"reports": {Type: "array", Items: openapi.SchemaRef("Report")},
			},
		},
		"CreateReport": {
			Type:     "object",
			Required: []string{"phone", "lat", "lng", "message"},
			Properties: map[string]*openapi.Schema{
				"phone":   {Type: "string"},
				"lat":     {Type: "number", Minimum: minLat, Maximum: maxLat},
				"lng":     {Type: "number", Minimum: minLng, Maximum: maxLng},
				"message": {Type: "string"},
				"ts":      {Type: "string"},
				"meta":    meta,
			},
		},
		"UpdateReport": {
			Type:        "object",
			Description: "Either id or phone is required. When only phone is given the most recent report for it is updated.",
			Properties: map[string]*openapi.Schema{
				"id":      {Type: "string", Description: "Report id; an id matching no report yields 404"},
				"phone":   {Type: "string"},
				"message": {Type: "string"},
				"lat":     {Type: "number", Minimum: minLat, Maximum: maxLat},
				"lng":     {Type: "number", Minimum: minLng, Maximum: maxLng},
				"meta":    meta,
			},
		},
		"UpdateStatus": {
			Type:     "object",
			Required: []string{"id", "status"},
			Properties: map[string]*openapi.Schema{
				"id":     {Type: "string", Description: "Report id; an id matching no report yields 404"},
				"status": {Type: "string", Enum: []any{StatusPending, StatusProcessing, StatusDone, StatusHolding}},
			},
		},
	}
}

// Paths returns the OpenAPI path items for the routes in Handler.Routes,
// relative to the API base path.
func Paths() map[string]*openapi.PathItem {
	tags := []string{"reports"}

	return map[string]*openapi.PathItem{
		"/report": {
			Post: &openapi.Operation{
				OperationID: "createReport",
				Summary:     "Submit a rescue report",
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON("CreateReport"),
				Responses: map[int]*openapi.Response{
					201: openapi.ResponseJSON("Report created", "ReportResponse"),
					400: openapi.ResponseRef("BadRequest"),
					413: openapi.ResponseRef("PayloadTooLarge"),
					503: openapi.ResponseRef("ServiceUnavailable"),
				},
			},
		},
		"/report/update": {
			Put: &openapi.Operation{
				OperationID: "updateReport",
				Summary:     "Merge new details into an existing report",
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON("UpdateReport"),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Report updated", "ReportResponse"),
					400: openapi.ResponseRef("BadRequest"),
					404: openapi.ResponseRef("NotFound"),
					503: openapi.ResponseRef("ServiceUnavailable"),
				},
			},
		},
		"/report/{id}": {
			Get: &openapi.Operation{
				OperationID: "findReport",
				Summary:     "Get a report by id",
				Tags:        tags,
				Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Report ID")},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Report", "ReportResponse"),
					404: openapi.ResponseRef("NotFound"),
					503: openapi.ResponseRef("ServiceUnavailable"),
				},
			},
		},
		"/rescue/list": {
			Get: &openapi.Operation{
				OperationID: "listReports",
				Summary:     "List every report, newest first",
				Tags:        tags,
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Reports", "ReportListResponse"),
					503: openapi.ResponseRef("ServiceUnavailable"),
				},
			},
		},
		"/rescue/update-status": {
			Put: &openapi.Operation{
				OperationID: "updateReportStatus",
				Summary:     "Set a report's dispatch status",
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON("UpdateStatus"),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Report updated", "ReportResponse"),
					400: openapi.ResponseRef("BadRequest"),
					404: openapi.ResponseRef("NotFound"),
					503: openapi.ResponseRef("ServiceUnavailable"),
				},
			},
		},
	}
}
