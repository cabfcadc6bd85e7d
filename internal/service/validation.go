package service

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"

	"github.com/ishita-lives/schedulr/internal/model"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	hhmmTag     = "hhmm"
	notBlankTag = "notblank"
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(hhmmTag, hhmmValidation)
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)

	registerCustomTranslation(hhmmTag, "{0} must be a time in HH:MM format")
	registerCustomTranslation(notBlankTag, "{0} cannot be blank")
}

func registerCustomTranslation(tag, text string) {
	_ = validate.RegisterTranslation(tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field())
			return msg
		},
	)
}

func hhmmValidation(fl validator.FieldLevel) bool {
	_, err := model.ParseClock(fl.Field().String())
	return err == nil
}

func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ClassInput describes a class slot to create or update.
type ClassInput struct {
	Subject   string    `json:"subject" validate:"notblank,max=120"`
	TeacherID uuid.UUID `json:"teacher_id" validate:"required"`
	DayOfWeek int       `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string    `json:"start_time" validate:"required,hhmm"`
	EndTime   string    `json:"end_time" validate:"required,hhmm"`
	Capacity  int       `json:"capacity" validate:"min=0"` // 0 means model.DefaultCapacity
}

// ChangeInput describes a one-off schedule change for an enrollment.
type ChangeInput struct {
	EnrollmentID  uuid.UUID `json:"enrollment_id" validate:"required"`
	RequestedDate time.Time `json:"requested_date" validate:"required"`
	NewStartTime  string    `json:"new_start_time" validate:"required,hhmm"`
	NewEndTime    string    `json:"new_end_time" validate:"required,hhmm"`
	Reason        string    `json:"reason" validate:"notblank,max=1000"`
}

// validateStruct runs the tag rules and reports the first failure.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Reason: fe.Translate(translator)}
	}

	return &ValidationError{Field: "input", Reason: err.Error()}
}

// toSlot validates in and converts it to a slot. Field rules run first, then
// the interval rules, so conflict detection only ever sees well-formed input.
func (in ClassInput) toSlot() (*model.ClassSlot, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	start, _ := model.ParseClock(in.StartTime)
	end, _ := model.ParseClock(in.EndTime)

	iv := model.Interval{Day: in.DayOfWeek, Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return nil, intervalError(err)
	}

	capacity := in.Capacity
	if capacity == 0 {
		capacity = model.DefaultCapacity
	}

	return &model.ClassSlot{
		Subject:   strings.TrimSpace(in.Subject),
		TeacherID: in.TeacherID,
		DayOfWeek: in.DayOfWeek,
		StartTime: start,
		EndTime:   end,
		Capacity:  capacity,
	}, nil
}

func intervalError(err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidDay):
		return &ValidationError{Field: "day_of_week", Reason: err.Error()}
	case errors.Is(err, model.ErrEmptyInterval):
		return &ValidationError{Field: "end_time", Reason: "end time must be after start time"}
	default:
		return &ValidationError{Field: "start_time", Reason: err.Error()}
	}
}
