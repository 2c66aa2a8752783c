package model

import "time"

// Statement is a single true/false assertion of a lecture's anonymous
// self-assessment quiz, configured in the catalog file.
//
// Fields:
//  Text  – the assertion shown to the student.
//  Truth – whether the assertion is actually true.
type Statement struct {
	Text  string `yaml:"text"`
	Truth bool   `yaml:"truth"`
}

// QuizAnswer is a recorded quiz submission for one statement.  Answers are
// deliberately stored without any reference to the identity that submitted
// them; the quiz is anonymous by design.
//
// Fields:
//  ID        – primary key identifier.
//  Lecture   – lecture the quiz belongs to.
//  Statement – zero-based index of the statement answered.
//  Answer    – the submitted true/false answer.
//  CreatedAt – submission timestamp.
type QuizAnswer struct {
	ID        uint64    // quiz_answers.id
	Lecture   string    // quiz_answers.lecture
	Statement int       // quiz_answers.statement_idx
	Answer    bool      // quiz_answers.answer
	CreatedAt time.Time // quiz_answers.created_at
}

// QuizTally aggregates the recorded answers for one statement.
//
// Fields:
//  Statement – zero-based statement index.
//  True      – number of submissions that answered true.
//  False     – number of submissions that answered false.
type QuizTally struct {
	Statement int
	True      int
	False     int
}
