package models

// DefaultRole is assigned to users created without an explicit role
const DefaultRole = "staff"

// RoleAdmin is the role given to the bootstrap administrator
const RoleAdmin = "admin"
