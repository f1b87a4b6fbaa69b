package domain

import "fmt"

type VitalAlert struct {
	Vital   string `json:"vital"`
	Reading string `json:"reading"`
	Range   string `json:"range"`
}

// Alerts lists readings outside the reference ranges used by the vitals table.
// Nil readings are skipped.
func (v VitalSigns) Alerts() []VitalAlert {
	alerts := make([]VitalAlert, 0)

	if bp := v.BloodPressure; bp != nil {
		if bp.Systolic < 90 || bp.Systolic > 140 || bp.Diastolic < 60 || bp.Diastolic > 90 {
			alerts = append(alerts, VitalAlert{
				Vital:   "pa",
				Reading: fmt.Sprintf("%dx%d", bp.Systolic, bp.Diastolic),
				Range:   "90-140 x 60-90",
			})
		}
	}
	if hr := v.HeartRate; hr != nil && (hr.Value < 50 || hr.Value > 100) {
		alerts = append(alerts, VitalAlert{Vital: "hr", Reading: fmt.Sprintf("%d", hr.Value), Range: "50-100"})
	}
	if rr := v.RespiratoryRate; rr != nil && (rr.Value < 12 || rr.Value > 22) {
		alerts = append(alerts, VitalAlert{Vital: "rr", Reading: fmt.Sprintf("%d", rr.Value), Range: "12-22"})
	}
	if spo2 := v.SpO2; spo2 != nil && spo2.Value < 94 {
		alerts = append(alerts, VitalAlert{Vital: "spo2", Reading: fmt.Sprintf("%d", spo2.Value), Range: ">=94"})
	}
	if temp := v.Temperature; temp != nil && (temp.Value < 35.5 || temp.Value > 37.8) {
		alerts = append(alerts, VitalAlert{Vital: "temp", Reading: fmt.Sprintf("%.1f", temp.Value), Range: "35.5-37.8"})
	}
	return alerts
}
