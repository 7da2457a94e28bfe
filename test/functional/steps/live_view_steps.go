package steps

import (
	"context"
	"formflow/internal/forms/domain"
	"formflow/internal/forms/usecases"
)

func (fc *FeatureContext) theBackendReportsResponsesForTheForm(total int) error {
	fc.backend.SetTotalResponses(fc.formID, total)
	return nil
}

func (fc *FeatureContext) iWatchTheForm() error {
	fc.liveView = usecases.NewLiveView(domain.ID(fc.formID), fc.api, fc.dialer, nil, nil)
	return fc.liveView.Activate(context.Background())
}

func (fc *FeatureContext) iStopWatching() error {
	fc.liveView.Deactivate()
	return nil
}

func (fc *FeatureContext) theBackendPushesASnapshotWithResponses(total int) error {
	return fc.backend.PushSnapshot(fc.formID, total)
}

func (fc *FeatureContext) theBackendPushes(payload string) error {
	return fc.backend.Push(fc.formID, []byte(payload))
}

func (fc *FeatureContext) theLiveViewShowsResponses(total int) error {
	fc.require.Eventually(func() bool {
		snapshot, ok := fc.liveView.Snapshot()
		return ok && snapshot.TotalResponses == total
	}, _eventuallyWait, _eventuallyTick)
	return nil
}

func (fc *FeatureContext) theBackendWasGreetedWith(greeting string) error {
	fc.require.Eventually(func() bool {
		return len(fc.backend.Greetings(fc.formID)) > 0
	}, _eventuallyWait, _eventuallyTick)
	fc.require.Equal([]string{greeting}, fc.backend.Greetings(fc.formID))
	return nil
}

func (fc *FeatureContext) pushesWereDropped(count int) error {
	fc.require.Eventually(func() bool {
		return fc.liveView.Dropped() == count
	}, _eventuallyWait, _eventuallyTick)
	return nil
}

func (fc *FeatureContext) theBackendSeesTheStreamClosed() error {
	fc.require.Eventually(func() bool {
		return fc.backend.OpenStreams(fc.formID) == 0 && fc.backend.ClosedStreams(fc.formID) == 1
	}, _eventuallyWait, _eventuallyTick)
	return nil
}
