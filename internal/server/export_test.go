package server

var ServeListener = serveListener
