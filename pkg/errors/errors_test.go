package errors

import "testing"

func TestErrors_ErrorMethodAndKind(t *testing.T) {
	cases := []struct {
		err  Kinder
		kind Kind
	}{
		{&ParseError{Message: "bad token"}, KindParse},
		{&CodecError{Message: "short key"}, KindCodec},
		{&TableNotFoundError{Name: "t1"}, KindNotFound},
		{&ColumnNotFoundError{Name: "c1"}, KindNotFound},
		{&TableAlreadyExistsError{Name: "t1"}, KindConstraint},
		{&NoPrimaryKeyError{TableName: "t1"}, KindConstraint},
		{&MultiplePrimaryKeysError{TableName: "t1", Count: 2}, KindConstraint},
		{&DuplicatePrimaryKeyError{Table: "t1", Key: "1"}, KindConstraint},
		{&NullViolationError{Table: "t1", Column: "a"}, KindConstraint},
		{&TypeMismatchError{Table: "t1", Column: "a", Want: "INTEGER", Got: "STRING"}, KindConstraint},
		{&MissingDefaultError{Table: "t1", Column: "a"}, KindConstraint},
		{&DefaultTypeMismatchError{Table: "t1", Column: "a"}, KindConstraint},
		{&WriteConflictError{Key: "k1"}, KindWriteConflict},
		{&InternalError{Message: "poisoned"}, KindInternal},
	}

	for _, tc := range cases {
		if tc.err.Error() == "" {
			t.Errorf("Error() returned empty string for %T", tc.err)
		}
		if tc.err.Kind() != tc.kind {
			t.Errorf("%T: Kind() = %v, want %v", tc.err, tc.err.Kind(), tc.kind)
		}
		if KindOf(tc.err) != tc.kind {
			t.Errorf("%T: KindOf() = %v, want %v", tc.err, KindOf(tc.err), tc.kind)
		}
	}
}

type plainError string

func (e plainError) Error() string { return string(e) }

func TestKindOf_UnknownError(t *testing.T) {
	err := plainError("boom")
	if KindOf(err) != KindInternal {
		t.Errorf("KindOf(plain error) = %v, want KindInternal", KindOf(err))
	}
}
