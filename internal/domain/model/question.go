package model

// Question is one entry of the current quiz. Answer is expected to equal one of
// Options but this is not checked.
type Question struct {
	ID       int64    `json:"id"`
	Text     string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
	Position int      `json:"-"`
}

// QuestionInput is the loader payload shape: {"question", "options", "answer"}.
type QuestionInput struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}
