package mapper

import (
	"testing"
	"time"

	"feature-catalog-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureRecordMapperKeepsSampleMeta(t *testing.T) {
	m := NewFeatureRecordMapper()
	loc := "uploads/abc_report.pdf"
	id := int64(3)
	rec := &entity.FeatureRecord{
		Id:             uuid.New(),
		SystemName:     "Facebook",
		SystemNameId:   &id,
		Module:         "Messenger",
		Feature:        "Seen",
		Client:         "ABS CBN",
		Source:         "Media",
		Description:    "x",
		SampleLocation: &loc,
		SampleMeta:     &entity.SampleMeta{FileName: "report.pdf", FileSize: 42},
		CreatedAt:      time.Now(),
	}

	mdl := m.ToModel(rec)
	require.NotNil(t, mdl)
	assert.JSONEq(t, `{"file_name":"report.pdf","file_size":42}`, string(mdl.SampleMeta))

	back := m.ToEntity(mdl)
	require.NotNil(t, back.SampleMeta)
	assert.Equal(t, "report.pdf", back.SampleMeta.FileName)
	assert.Equal(t, int64(42), back.SampleMeta.FileSize)
	assert.Equal(t, &id, back.SystemNameId)
	assert.Nil(t, back.ModuleId)
}

func TestFeatureRecordMapperWithoutSample(t *testing.T) {
	m := NewFeatureRecordMapper()
	mdl := m.ToModel(&entity.FeatureRecord{Id: uuid.New(), SystemName: "X"})
	assert.Empty(t, mdl.SampleMeta)
	assert.Nil(t, m.ToEntity(mdl).SampleMeta)
	assert.Nil(t, m.ToEntity(nil))
}
