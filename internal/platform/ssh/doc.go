// Package ssh provides the remote session to a provisioned GPU instance.
//
// A Client dials with retry, since sshd inside a freshly started container
// usually accepts connections some seconds after the provider reports the
// port mapping. A Session then streams command output as it arrives and
// copies directory trees over SFTP on the same connection.
package ssh
