package scene

// CurrentVersion is the scene document version written by this module.
const CurrentVersion = "0.5"
