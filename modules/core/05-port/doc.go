/*
Package port implements the ICS 05 - Port Allocation routing of channel
handshake and packet callbacks to the application module bound to a port.
*/
package port
