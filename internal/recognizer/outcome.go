package recognizer

// FailureKind classifies a failed recognition attempt. The set is closed;
// anything the server reports outside it maps to KindUnknown.
type FailureKind string

const (
	KindNoStudentsRegistered FailureKind = "no_students_registered"
	KindNoFaceEncodings      FailureKind = "no_face_encodings"
	KindFaceNotRecognized    FailureKind = "face_not_recognized"
	KindFaceDetectionFailed  FailureKind = "face_detection_failed"
	KindNetworkUnreachable   FailureKind = "network_unreachable"
	KindUnauthenticated      FailureKind = "unauthenticated"
	KindUnknown              FailureKind = "unknown"
)

// Identity is one recognized person as reported by the remote recognizer.
type Identity struct {
	Name       string  `json:"name"`
	RollNumber string  `json:"roll_number"`
	Confidence float64 `json:"confidence"`
	Status     string  `json:"status"`
}

// Outcome is the typed result of one recognition attempt. A failed attempt
// is a value, not an error; the capture loop forwards it to the sink and
// the next scheduled tick retries naturally.
type Outcome struct {
	Identities []Identity
	Failure    FailureKind // empty on success
	Message    string      // server-supplied detail for failures
}

// OK reports whether the attempt reached the recognizer and got a valid
// response. An empty identity list is still OK (nobody in frame).
func (o Outcome) OK() bool {
	return o.Failure == ""
}

// Recognized wraps a successful response.
func Recognized(ids []Identity) Outcome {
	return Outcome{Identities: ids}
}

// Failed wraps a typed failure.
func Failed(kind FailureKind, message string) Outcome {
	return Outcome{Failure: kind, Message: message}
}

// kindFromTag maps the server's status tag to a FailureKind.
func kindFromTag(tag string) FailureKind {
	switch tag {
	case "no_students_registered":
		return KindNoStudentsRegistered
	case "no_face_encodings":
		return KindNoFaceEncodings
	case "face_not_recognized":
		return KindFaceNotRecognized
	case "face_detection_failed":
		return KindFaceDetectionFailed
	default:
		return KindUnknown
	}
}
