package hq

// CalibrationDocument is the downloaded calibration payload.
type CalibrationDocument struct {
	APIKey      string     `json:"apikey"`
	Description string     `json:"description"`
	Copyright   string     `json:"copyright"`
	TestData    []TestItem `json:"test-data"`
}

// TestItem is one calibration entry: an arithmetic question with its
// recorded answer, and occasionally an open test question for the model.
type TestItem struct {
	Question string    `json:"question"`
	Answer   int       `json:"answer"`
	Test     *TestPair `json:"test,omitempty"`
}

type TestPair struct {
	Q string `json:"q"`
	A string `json:"a"`
}
