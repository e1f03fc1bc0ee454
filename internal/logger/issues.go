package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	rb "github.com/reoring/rulebridge"
)

// Issues returns a field listing the path, code and params of every issue
// carried by err. Errors without issues log as a plain "error" field.
func Issues(err error) zap.Field {
	iss, ok := rb.AsIssues(err)
	if !ok {
		return zap.Error(err)
	}
	return zap.Array("issues", issueArray(iss))
}

type issueArray rb.Issues

func (a issueArray) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, it := range a {
		if err := enc.AppendObject(issueObject(it)); err != nil {
			return err
		}
	}
	return nil
}

type issueObject rb.Issue

func (o issueObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("path", o.Path)
	enc.AddString("code", o.Code)
	if len(o.Params) > 0 {
		return enc.AddReflected("params", o.Params)
	}
	return nil
}
