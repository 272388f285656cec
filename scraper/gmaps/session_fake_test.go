package gmaps

import (
	"time"

	"maps-scraper/config"
	"maps-scraper/utils"
)

// fakeSession scripts the page-interaction surface so the discovery and
// enrichment state machines can run without a browser.
type fakeSession struct {
	markup    string
	navErr    error
	onWait    func(selector string) error
	attrs     map[string]string
	attrLists map[string][]string

	navCount int
	scrolls  int
	closed   bool
}

func (f *fakeSession) Navigate(string, time.Duration) error {
	f.navCount++
	return f.navErr
}

func (f *fakeSession) WaitVisible(selector string, _ time.Duration) error {
	if f.onWait != nil {
		return f.onWait(selector)
	}
	return nil
}

func (f *fakeSession) Fill(string, string) error { return nil }
func (f *fakeSession) PressEnter(string) error   { return nil }
func (f *fakeSession) Sleep(time.Duration)       {}
func (f *fakeSession) Close()                    { f.closed = true }

func (f *fakeSession) ScrollToBottom(string) error {
	f.scrolls++
	return nil
}

func (f *fakeSession) CountMatching(string) (int, error) {
	return f.scrolls, nil
}

func (f *fakeSession) RenderedMarkup() (string, error) {
	return f.markup, nil
}

func (f *fakeSession) Attribute(selector, _ string) (string, bool, error) {
	v, ok := f.attrs[selector]
	return v, ok, nil
}

func (f *fakeSession) AttributeAll(selector, _ string) ([]string, error) {
	return f.attrLists[selector], nil
}

func factoryFor(sess *fakeSession) SessionFactory {
	return func() (Session, error) { return sess, nil }
}

func testConfig() *config.Config {
	return &config.Config{
		DiscoveryWorkers: 2,
		EnrichWorkers:    4,
		MaxRetries:       3,
		MaxScrolls:       5,
	}
}

func testLogger() *utils.Logger { return utils.NewLogger() }
