package domain

// Icon identifies a navigation glyph; the rendering layer maps it to artwork.
type Icon string

const (
	IconDashboard     Icon = "dashboard"
	IconHospital      Icon = "hospital"
	IconUsers         Icon = "users"
	IconDoctor        Icon = "doctor"
	IconCalendar      Icon = "calendar"
	IconConsultation  Icon = "consultation"
	IconPatients      Icon = "patients"
	IconPayments      Icon = "payments"
	IconReports       Icon = "reports"
	IconCheckIn       Icon = "check-in"
	IconMessages      Icon = "messages"
	IconNotifications Icon = "notifications"
	IconSettings      Icon = "settings"
)

// NavigationEntry is one item in a role's sidebar.
type NavigationEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Icon Icon   `json:"icon"`
}

// dashboardSlugs maps a role to the slug used in its dashboard path.
var dashboardSlugs = map[Role]string{
	RoleAdmin:         "admin",
	RoleHospitalAdmin: "hospital-admin",
	RoleDoctor:        "doctor",
	RolePatient:       "patient",
	RoleReceptionist:  "receptionist",
}

// DashboardPath returns the landing route for role, e.g. "/hospital-admin-dashboard".
func DashboardPath(role Role) (string, bool) {
	slug, ok := dashboardSlugs[role]
	if !ok {
		return "", false
	}
	return "/" + slug + "-dashboard", true
}

var navigation = map[Role][]NavigationEntry{
	RoleAdmin: {
		{Name: "Dashboard", Path: "/admin-dashboard", Icon: IconDashboard},
		{Name: "Hospitals", Path: "/admin-dashboard/hospitals", Icon: IconHospital},
		{Name: "Users", Path: "/admin-dashboard/users", Icon: IconUsers},
		{Name: "Payments", Path: "/admin-dashboard/payments", Icon: IconPayments},
		{Name: "Reports", Path: "/admin-dashboard/reports", Icon: IconReports},
		{Name: "Notifications", Path: "/notifications", Icon: IconNotifications},
		{Name: "Settings", Path: "/settings", Icon: IconSettings},
	},
	RoleHospitalAdmin: {
		{Name: "Dashboard", Path: "/hospital-admin-dashboard", Icon: IconDashboard},
		{Name: "Doctors", Path: "/hospital-admin-dashboard/doctors", Icon: IconDoctor},
		{Name: "Receptionists", Path: "/hospital-admin-dashboard/receptionists", Icon: IconUsers},
		{Name: "Appointments", Path: "/hospital-admin-dashboard/appointments", Icon: IconCalendar},
		{Name: "Payments", Path: "/hospital-admin-dashboard/payments", Icon: IconPayments},
		{Name: "Notifications", Path: "/notifications", Icon: IconNotifications},
		{Name: "Settings", Path: "/settings", Icon: IconSettings},
	},
	RoleDoctor: {
		{Name: "Dashboard", Path: "/doctor-dashboard", Icon: IconDashboard},
		{Name: "Appointments", Path: "/doctor-dashboard/appointments", Icon: IconCalendar},
		{Name: "Consultations", Path: "/doctor-dashboard/consultations", Icon: IconConsultation},
		{Name: "Patients", Path: "/doctor-dashboard/patients", Icon: IconPatients},
		{Name: "Messages", Path: "/messages", Icon: IconMessages},
		{Name: "Notifications", Path: "/notifications", Icon: IconNotifications},
		{Name: "Settings", Path: "/settings", Icon: IconSettings},
	},
	RolePatient: {
		{Name: "Dashboard", Path: "/patient-dashboard", Icon: IconDashboard},
		{Name: "Book Appointment", Path: "/patient-dashboard/book-appointment", Icon: IconCalendar},
		{Name: "My Appointments", Path: "/patient-dashboard/appointments", Icon: IconCalendar},
		{Name: "Consultations", Path: "/patient-dashboard/consultations", Icon: IconConsultation},
		{Name: "Payments", Path: "/patient-dashboard/payments", Icon: IconPayments},
		{Name: "Messages", Path: "/messages", Icon: IconMessages},
		{Name: "Notifications", Path: "/notifications", Icon: IconNotifications},
	},
	RoleReceptionist: {
		{Name: "Dashboard", Path: "/receptionist-dashboard", Icon: IconDashboard},
		{Name: "Appointments", Path: "/receptionist-dashboard/appointments", Icon: IconCalendar},
		{Name: "Check-in", Path: "/receptionist-dashboard/check-in", Icon: IconCheckIn},
		{Name: "Patients", Path: "/receptionist-dashboard/patients", Icon: IconPatients},
		{Name: "Notifications", Path: "/notifications", Icon: IconNotifications},
		{Name: "Settings", Path: "/settings", Icon: IconSettings},
	},
}

// NavigationFor returns the ordered sidebar entries for role. Unknown roles
// get an empty list so rendering never fails on a role added server-side first.
func NavigationFor(role Role) []NavigationEntry {
	entries := navigation[role]
	out := make([]NavigationEntry, len(entries))
	copy(out, entries)
	return out
}
