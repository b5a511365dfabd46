package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	profilesTable    = "skill_profiles"
	rolesTable       = "roles"
	resourcesTable   = "learning_resources"
	analysesTable    = "gap_analyses"
	assessmentsTable = "assessments"
	llmEventsTable   = "llm_request_events"
	sequenceTable    = "global_sequence"
)

const textSize = 2147483647

var (
	skillProfilesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "skill_name", Type: field.TypeString},
		{Name: "level", Type: field.TypeInt, Default: 0},
		{Name: "confidence", Type: field.TypeFloat64, Default: 0},
		{Name: "source", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeTime},
	}
	skillProfilesSchema = &schema.Table{
		Name:       profilesTable,
		Columns:    skillProfilesColumns,
		PrimaryKey: []*schema.Column{skillProfilesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "skillprofile_user_id_skill_id",
				Unique:  true,
				Columns: []*schema.Column{skillProfilesColumns[1], skillProfilesColumns[2]},
			},
		},
	}

	rolesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "requirements", Type: field.TypeString, Size: textSize},
	}
	rolesSchema = &schema.Table{
		Name:       rolesTable,
		Columns:    rolesColumns,
		PrimaryKey: []*schema.Column{rolesColumns[0]},
	}

	resourcesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "url", Type: field.TypeString},
		{Name: "provider", Type: field.TypeString, Default: ""},
		{Name: "kind", Type: field.TypeString},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "rating", Type: field.TypeFloat64, Default: 0},
		{Name: "review_count", Type: field.TypeInt, Default: 0},
		{Name: "duration_hours", Type: field.TypeFloat64, Default: 0},
		{Name: "free", Type: field.TypeBool, Default: false},
	}
	resourcesSchema = &schema.Table{
		Name:       resourcesTable,
		Columns:    resourcesColumns,
		PrimaryKey: []*schema.Column{resourcesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "learningresource_skill_id", Columns: []*schema.Column{resourcesColumns[1]}},
		},
	}

	analysesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "result_id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "role_id", Type: field.TypeString},
		{Name: "readiness", Type: field.TypeInt},
		{Name: "scorer", Type: field.TypeString},
		{Name: "result", Type: field.TypeString, Size: textSize},
		{Name: "analyzed_at", Type: field.TypeTime},
	}
	analysesSchema = &schema.Table{
		Name:       analysesTable,
		Columns:    analysesColumns,
		PrimaryKey: []*schema.Column{analysesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "gapanalysis_user_id_analyzed_at", Columns: []*schema.Column{analysesColumns[2], analysesColumns[7]}},
		},
	}

	assessmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "skill_name", Type: field.TypeString},
		{Name: "questions", Type: field.TypeString, Size: textSize},
		{Name: "answers", Type: field.TypeString, Size: textSize, Default: "[]"},
		{Name: "score", Type: field.TypeFloat64, Default: 0},
		{Name: "level", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
	}
	assessmentsSchema = &schema.Table{
		Name:       assessmentsTable,
		Columns:    assessmentsColumns,
		PrimaryKey: []*schema.Column{assessmentsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "assessment_user_id", Columns: []*schema.Column{assessmentsColumns[1]}},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "cache_hit", Type: field.TypeBool, Default: false},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: textSize, Default: ""},
	}
	llmEventsSchema = &schema.Table{
		Name:       llmEventsTable,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmEventsColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
		},
	}

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceSchema = &schema.Table{
		Name:       sequenceTable,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	tables = []*schema.Table{
		skillProfilesSchema,
		rolesSchema,
		resourcesSchema,
		analysesSchema,
		assessmentsSchema,
		llmEventsSchema,
		sequenceSchema,
	}
)

// migrate creates or updates every table the store owns.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}
