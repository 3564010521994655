package livesync

import (
	"testing"

	"showcase-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_WireFormat(t *testing.T) {
	data, err := Encode(Ready())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"READY"}`, string(data))

	data, err = Encode(RegionClicked(TargetShow, 3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"REGION_CLICKED","target":"show","showIndex":3}`, string(data))

	data, err = Encode(RegionClicked(TargetNavbar, 3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"REGION_CLICKED","target":"navbar"}`, string(data))
}

func TestUpdate_CopiesDocument(t *testing.T) {
	doc := models.Document{Shows: []models.Show{{ID: 1, Cast: []string{"a"}}}}
	msg := Update(doc, ViewportMobile)

	doc.Shows[0].Cast[0] = "changed"

	assert.Equal(t, "a", msg.Document.Shows[0].Cast[0])
}

func TestDecode_Update(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"UPDATE","document":{"navbar":{"logo":"X"}},"viewportHint":"desktop"}`))
	require.NoError(t, err)
	assert.Equal(t, MsgUpdate, msg.Type)
	assert.Equal(t, "X", msg.Document.Navbar.Logo)
	assert.Equal(t, ViewportDesktop, msg.ViewportHint)
}

func TestDecode_UnrecognisedViewportMeansStandalone(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"UPDATE","document":{},"viewportHint":"tablet"}`))
	require.NoError(t, err)
	assert.Equal(t, ViewportNone, msg.ViewportHint)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not json", `hello`, ErrMalformedMessage},
		{"no type", `{}`, ErrUnknownMessage},
		{"unknown type", `{"type":"PREVIEW_CLOSED"}`, ErrUnknownMessage},
		{"update without document", `{"type":"UPDATE"}`, ErrMalformedMessage},
		{"update with wrong document shape", `{"type":"UPDATE","document":{"shows":"nope"}}`, ErrMalformedMessage},
		{"click without target", `{"type":"REGION_CLICKED"}`, ErrMalformedMessage},
		{"click on unknown target", `{"type":"REGION_CLICKED","target":"footer"}`, ErrMalformedMessage},
		{"show click without index", `{"type":"REGION_CLICKED","target":"show"}`, ErrMalformedMessage},
		{"show click with negative index", `{"type":"REGION_CLICKED","target":"show","showIndex":-2}`, ErrMalformedMessage},
		{"show click with string index", `{"type":"REGION_CLICKED","target":"show","showIndex":"2"}`, ErrMalformedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsNoOp(err))
		})
	}
}

func TestSectionFor(t *testing.T) {
	key, ok := SectionFor(RegionClicked(TargetNavbar, 0))
	assert.True(t, ok)
	assert.Equal(t, SectionNavbar, key)

	key, ok = SectionFor(RegionClicked(TargetHero, 0))
	assert.True(t, ok)
	assert.Equal(t, SectionHero, key)

	key, ok = SectionFor(RegionClicked(TargetShow, 4))
	assert.True(t, ok)
	assert.Equal(t, SectionKey("show-4"), key)

	_, ok = SectionFor(Ready())
	assert.False(t, ok)
}
