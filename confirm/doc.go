// Package confirm creates a user's profile when their identity is confirmed.
//
// [Service.Confirm] runs once per confirmation. It validates the input,
// builds the profile, and writes it with a create-if-absent condition so that
// repeated or concurrent deliveries for the same user leave exactly one
// profile. It never retries and never panics on store failures; the
// [Result] tells the caller what happened and the caller decides whether a
// failure matters.
package confirm
