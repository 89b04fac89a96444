package module

// SurveyorState is the lifecycle state of a CoBo's data-router status
// server, as reported by the first line of its plain-text response.
type SurveyorState int

const (
	SurveyorOffline SurveyorState = iota
	SurveyorOnline
	SurveyorInvalid
	SurveyorInconsistent
)

var surveyorStateText = map[SurveyorState]string{
	SurveyorOffline:      "Offline",
	SurveyorOnline:       "Online",
	SurveyorInvalid:      "Invalid",
	SurveyorInconsistent: "Inconsistent",
}

func (s SurveyorState) String() string {
	if text, ok := surveyorStateText[s]; ok {
		return text
	}
	return "Invalid"
}

// SurveyorStateFromWire maps the integer state field of a Surveyor
// response (0 = offline, 1 = online) to a SurveyorState.
func SurveyorStateFromWire(state int) SurveyorState {
	switch state {
	case 0:
		return SurveyorOffline
	case 1:
		return SurveyorOnline
	default:
		return SurveyorInvalid
	}
}

// DiskStatus is the disk-fullness classification derived from whether
// any "graw" file is present in a Surveyor's file listing.
type DiskStatus int

const (
	DiskEmpty DiskStatus = iota
	DiskFilled
	DiskNA
)

var diskStatusText = map[DiskStatus]string{
	DiskFilled: "Filled",
	DiskEmpty:  "Empty",
	DiskNA:     "N/A",
}

func (d DiskStatus) String() string {
	if text, ok := diskStatusText[d]; ok {
		return text
	}
	return "N/A"
}
