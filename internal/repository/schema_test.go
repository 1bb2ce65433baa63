package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstraintGuardsLabel(t *testing.T) {
	def := `EXCLUDE USING gist (venue_id WITH =, reservation_date WITH =, int4range(start_minute, end_minute) WITH &&) WHERE (((status)::text = 'aprobada'::text))`

	assert.True(t, constraintGuardsLabel(def, "aprobada"))
	assert.False(t, constraintGuardsLabel(def, "approved"))
	assert.False(t, constraintGuardsLabel(def, "aprob"))
	assert.False(t, constraintGuardsLabel("EXCLUDE USING gist (venue_id WITH =)", "aprobada"))

	quoted := `EXCLUDE USING gist (venue_id WITH =) WHERE (((status)::text = 'o''k'::text))`
	assert.True(t, constraintGuardsLabel(quoted, "o'k"))
}

func TestExclusionConstraintDDL_QuotesLabel(t *testing.T) {
	ddl := exclusionConstraintDDL("o'k")
	assert.Contains(t, ddl, "ADD CONSTRAINT "+approvedOverlapConstraint)
	assert.Contains(t, ddl, "WHERE (status = 'o''k')")
}
