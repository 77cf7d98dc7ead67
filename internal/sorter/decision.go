package sorter

// FolderChoice is the answer to "what should happen to this folder?".
type FolderChoice int

const (
	// FolderKeep leaves the folder and its contents untouched.
	FolderKeep FolderChoice = iota
	// FolderSortInside sorts the folder's media into year/month and
	// bucket structure rooted at the folder itself.
	FolderSortInside
	// FolderSortIntoYears disperses the folder's media into the
	// top-level year/month and bucket structure.
	FolderSortIntoYears
	// FolderSkip leaves the folder alone for this run only.
	FolderSkip
	// FolderQuit aborts the remainder of the run.
	FolderQuit
)

// DupAction is the answer to "what should happen to this duplicate group?".
type DupAction int

const (
	// DupConfirm keeps the suggested canonical file and trashes the rest.
	DupConfirm DupAction = iota
	// DupKeepOne keeps the file at Decision.Index and trashes the rest.
	DupKeepOne
	// DupKeepAll leaves the whole group untouched.
	DupKeepAll
	// DupTrashAll trashes every file in the group.
	DupTrashAll
	// DupQuit aborts the remainder of the run.
	DupQuit
)

// DupDecision carries a DupAction plus the chosen index for DupKeepOne.
type DupDecision struct {
	Action DupAction
	Index  int
}

// ImageChoice is the answer to the per-image review prompt.
type ImageChoice int

const (
	ImageKeep ImageChoice = iota
	ImageJunk
	ImageMeme
	// ImageSkipFolder stops reviewing the current folder.
	ImageSkipFolder
	ImageQuit
)

// LiveChoice is the answer to the Live Photo companion video prompt.
type LiveChoice int

const (
	LiveKeep LiveChoice = iota
	LiveTrash
	LiveQuit
)

// DecisionSource supplies every judgement call the engines cannot make on
// their own. The engines never print or read anything themselves; an
// implementation may be an interactive prompt, a scripted policy, or a test
// double. Implementations handle their own I/O failures and should fall back
// to the quit choice when no answer can be obtained.
type DecisionSource interface {
	// DecideFolder is asked once per unclassified folder that contains media.
	DecideFolder(path string) FolderChoice

	// PickRelocationTarget is offered after a keep decision. It returns the
	// directory the folder should be moved into wholesale, or ok=false to
	// leave it where it is.
	PickRelocationTarget(path string) (target string, ok bool)

	// DecideDuplicate is asked once per duplicate group. canonical is the
	// index into group.Files of the engine's suggested keeper.
	DecideDuplicate(group DuplicateGroup, canonical int) DupDecision

	// DecideImage is asked once per image during a review pass.
	DecideImage(path string) ImageChoice

	// DecideLive is asked once per Live Photo companion video.
	DecideLive(path string) LiveChoice
}
