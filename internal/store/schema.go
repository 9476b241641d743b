package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions, migrated with ent's schema package on Open.

var (
	learnersColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Default: ""},
		{Name: "language", Type: field.TypeString, Default: "mk"},
		{Name: "path", Type: field.TypeString, Default: "Focus"},
		{Name: "points", Type: field.TypeInt, Default: 0},
		{Name: "streak", Type: field.TypeInt, Default: 0},
		{Name: "data", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	learnersTable = &schema.Table{
		Name:       "learners",
		Columns:    learnersColumns,
		PrimaryKey: []*schema.Column{learnersColumns[0]},
		Indexes: []*schema.Index{
			{Name: "learners_updated_at", Columns: []*schema.Column{learnersColumns[7]}},
		},
	}

	customProblemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "lesson_id", Type: field.TypeString},
		{Name: "data", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeInt64},
	}
	customProblemsTable = &schema.Table{
		Name:       "custom_problems",
		Columns:    customProblemsColumns,
		PrimaryKey: []*schema.Column{customProblemsColumns[0]},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
		{Name: "request_body", Type: field.TypeString, Nullable: true},
		{Name: "response_body", Type: field.TypeString, Nullable: true},
	}
	llmEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llm_request_events_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
		},
	}

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       "sequence_counter",
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	tables = []*schema.Table{
		learnersTable,
		customProblemsTable,
		llmEventsTable,
		sequenceTable,
	}
)
