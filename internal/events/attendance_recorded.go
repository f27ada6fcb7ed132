package events

import "time"

const AttendanceRecordedTopic = "attendance.attendance.recorded.v1"

const EventAttendanceRecorded = "attendance_recorded"

type AttendanceRecordedEvent struct {
	EventType    string    `json:"event_type"`
	AttendanceID string    `json:"attendance_id"`
	CompanyID    string    `json:"company_id"`
	UID          string    `json:"uid"`
	Type         string    `json:"type"`
	OccurredAt   time.Time `json:"occurred_at"`
}
