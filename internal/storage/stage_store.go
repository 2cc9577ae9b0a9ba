package storage

// StageStore narrows a Store to the single high score of one stage.
type StageStore struct {
	store   *Store
	stageID string
}

// ForStage returns a StageStore for stageID. A nil store yields a nil StageStore.
func (s *Store) ForStage(stageID string) *StageStore {
	if s == nil {
		return nil
	}
	return &StageStore{store: s, stageID: stageID}
}

// HighScore returns the stage's best score in frames.
func (ss *StageStore) HighScore() (int, error) {
	return ss.store.HighScore(ss.stageID)
}

// SetHighScore stores a new best score in frames.
func (ss *StageStore) SetHighScore(frames int) error {
	return ss.store.SetHighScore(ss.stageID, frames)
}
