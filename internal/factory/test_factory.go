package factory

import (
	"time"

	"github.com/mcoot/connectfour/internal/dependencies/mocks"
	"github.com/mcoot/connectfour/internal/services/session"
	"github.com/mcoot/connectfour/internal/storage/memory"
	"github.com/mcoot/connectfour/internal/testutil"
)

// TestDepth keeps minimax bots fast in tests
const TestDepth = 4

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// replayDir may be empty to skip recaps.
func NewTestApp(replayDir string) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, TestDepth, replayDir, session.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}
