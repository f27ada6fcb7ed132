package i18n

import (
	"context"

	"go-attendance/internal/shared/contextutil"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	MsgCompanyCreated  = "company.created"
	MsgClockedIn       = "attendance.clocked_in"
	MsgClockedOut      = "attendance.clocked_out"
	LabelClockIn       = "attendance.label.clock_in"
	LabelClockOut      = "attendance.label.clock_out"
	LabelCSVHeaderName = "attendance.csv.name"
	LabelCSVHeaderType = "attendance.csv.type"
	LabelCSVHeaderTime = "attendance.csv.time"
)

// Error message keys, referenced by the apperror sentinels of each module.
const (
	ErrUnauthenticated    = "error.unauthenticated"
	ErrInvalidArgument    = "error.invalid_argument"
	ErrPermissionDenied   = "error.permission_denied"
	ErrNotFound           = "error.not_found"
	ErrInternal           = "error.internal"
	ErrUserNotFound       = "error.user.not_found"
	ErrNoCompany          = "error.user.no_company"
	ErrCompanyNotFound    = "error.company.not_found"
	ErrInviteCodeNotFound = "error.company.invite_code_not_found"
	ErrInvalidCompanyID   = "error.company.invalid_id"
	ErrInviteCodeExhaust  = "error.invite_code.exhausted"
	ErrInvalidType        = "error.attendance.invalid_type"
	ErrCompanyMismatch    = "error.attendance.company_mismatch"
	ErrAlreadyClockedIn   = "error.attendance.already_clocked_in"
	ErrNoClockIn          = "error.attendance.no_clock_in"
	ErrAlreadyClockedOut  = "error.attendance.already_clocked_out"
	ErrAlreadyInCompany   = "error.account.already_in_company"
	ErrMembersRemain      = "error.account.members_remain"
	ErrCannotRemoveSelf   = "error.account.cannot_remove_self"
	ErrNotSameCompany     = "error.account.not_same_company"
	ErrTeardownIncomplete = "error.account.teardown_incomplete"
	ErrMemberRemoval      = "error.account.member_removal_failed"
)

var messages = map[language.Tag]map[string]string{
	language.Japanese: {
		MsgCompanyCreated:  "会社を作成しました。",
		MsgClockedIn:       "出勤しました",
		MsgClockedOut:      "退勤しました",
		LabelClockIn:       "出勤",
		LabelClockOut:      "退勤",
		LabelCSVHeaderName: "名前",
		LabelCSVHeaderType: "タイプ",
		LabelCSVHeaderTime: "時刻",

		ErrUnauthenticated:    "ログインが必要です。",
		ErrInvalidArgument:    "入力内容が正しくありません。",
		ErrPermissionDenied:   "管理者権限がありません。",
		ErrNotFound:           "対象が見つかりません。",
		ErrInternal:           "予期せぬエラーが発生しました。",
		ErrUserNotFound:       "ユーザーが見つかりません。",
		ErrNoCompany:          "まだ会社に所属していません。",
		ErrCompanyNotFound:    "会社が見つかりません。",
		ErrInviteCodeNotFound: "無効な招待コードです。",
		ErrInvalidCompanyID:   "会社IDが指定されていません。",
		ErrInviteCodeExhaust:  "招待コードを発行できませんでした。時間をおいて再度お試しください。",
		ErrInvalidType:        "打刻タイプが不正です。",
		ErrCompanyMismatch:    "この会社には所属していません。",
		ErrAlreadyClockedIn:   "既に出勤しています（二重出勤はできません）。",
		ErrNoClockIn:          "出勤記録が見つかりません。",
		ErrAlreadyClockedOut:  "既に退勤しています（二重退勤はできません）。",
		ErrAlreadyInCompany:   "すでに会社に所属しています。",
		ErrMembersRemain:      "他の社員が残っているため解約できません。",
		ErrCannotRemoveSelf:   "管理者は自分自身を削除できません。",
		ErrNotSameCompany:     "このユーザーはあなたの会社に所属していません。",
		ErrTeardownIncomplete: "会社は削除されましたが、ログインアカウントを削除できませんでした。",
		ErrMemberRemoval:      "ユーザーの削除中にエラーが発生しました。",
	},
	language.English: {
		MsgCompanyCreated:  "Company created.",
		MsgClockedIn:       "Clocked in.",
		MsgClockedOut:      "Clocked out.",
		LabelClockIn:       "Clock in",
		LabelClockOut:      "Clock out",
		LabelCSVHeaderName: "Name",
		LabelCSVHeaderType: "Type",
		LabelCSVHeaderTime: "Time",

		ErrUnauthenticated:    "Sign-in is required",
		ErrInvalidArgument:    "The provided input is invalid",
		ErrPermissionDenied:   "Administrator privileges are required",
		ErrNotFound:           "Resource not found",
		ErrInternal:           "An unexpected error occurred",
		ErrUserNotFound:       "User not found",
		ErrNoCompany:          "You do not belong to a company yet",
		ErrCompanyNotFound:    "Company not found",
		ErrInviteCodeNotFound: "Invalid invite code",
		ErrInvalidCompanyID:   "Company ID is not specified",
		ErrInviteCodeExhaust:  "Could not allocate an invite code, please try again later",
		ErrInvalidType:        "Type must be clock_in or clock_out",
		ErrCompanyMismatch:    "You do not belong to this company",
		ErrAlreadyClockedIn:   "Already clocked in",
		ErrNoClockIn:          "No clock-in record found",
		ErrAlreadyClockedOut:  "Already clocked out",
		ErrAlreadyInCompany:   "You already belong to a company",
		ErrMembersRemain:      "Other members remain in the company",
		ErrCannotRemoveSelf:   "Administrators cannot remove themselves",
		ErrNotSameCompany:     "The member does not belong to your company",
		ErrTeardownIncomplete: "The company was deleted but the sign-in account could not be removed",
		ErrMemberRemoval:      "An error occurred while removing the member",
	},
}

type Translator struct {
	catalog   *catalog.Builder
	matcher   language.Matcher
	supported []language.Tag
}

// New builds a translator whose fallback is defaultLang (ja or en).
func New(defaultLang string) *Translator {
	fallback := language.Japanese
	if base, _ := language.Make(defaultLang).Base(); base.String() == "en" {
		fallback = language.English
	}

	supported := []language.Tag{fallback}
	for tag := range messages {
		if tag != fallback {
			supported = append(supported, tag)
		}
	}

	b := catalog.NewBuilder(catalog.Fallback(fallback))
	for tag, entries := range messages {
		for key, msg := range entries {
			_ = b.SetString(tag, key, msg)
		}
	}

	return &Translator{
		catalog:   b,
		matcher:   language.NewMatcher(supported),
		supported: supported,
	}
}

// Match picks the supported language for an Accept-Language header value.
func (t *Translator) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.supported[0]
	}
	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return t.supported[0]
	}
	return t.supported[idx]
}

// T renders key in the language stored on ctx.
func (t *Translator) T(ctx context.Context, key string) string {
	tag, ok := contextutil.GetLanguage(ctx)
	if !ok {
		tag = t.supported[0]
	}
	return message.NewPrinter(tag, message.Catalog(t.catalog)).Sprintf(key)
}
